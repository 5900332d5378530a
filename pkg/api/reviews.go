package api

import "time"

// Review представляет отзыв пользователя об игре
type Review struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Content   string    `json:"content"`
	User      User      `json:"user"`
	Game      Game      `json:"game"`
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
}

// ReviewInput используется для создания и обновления отзыва
type ReviewInput struct {
	Content string `json:"content"`
	GameID  int64  `json:"gameId"`
	Rating  int    `json:"rating"`
}
