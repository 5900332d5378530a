package api

import (
	"strings"
	"time"
)

// GameStatus описывает статус игры в личной библиотеке
type GameStatus string

const (
	GameStatusPlanToPlay GameStatus = "PLAN_TO_PLAY"
	GameStatusPlaying    GameStatus = "PLAYING"
	GameStatusCompleted  GameStatus = "COMPLETED"
	GameStatusDropped    GameStatus = "DROPPED"
)

// DisplayName returns the human readable status label.
// Unknown statuses are shown as is.
func (s GameStatus) DisplayName() string {
	switch s {
	case GameStatusPlaying:
		return "Playing"
	case GameStatusCompleted:
		return "Completed"
	case GameStatusDropped:
		return "Dropped"
	case GameStatusPlanToPlay:
		return "Plan to Play"
	default:
		return string(s)
	}
}

// ParseGameStatus accepts both the wire form (PLAN_TO_PLAY) and the display form (plan to play).
func ParseGameStatus(s string) (GameStatus, bool) {
	for _, st := range []GameStatus{GameStatusPlanToPlay, GameStatusPlaying, GameStatusCompleted, GameStatusDropped} {
		if strings.EqualFold(string(st), s) || strings.EqualFold(st.DisplayName(), s) {
			return st, true
		}
	}
	return "", false
}

// Game представляет игру из каталога
type Game struct {
	ReleaseDate     *string  `json:"releaseDate,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	BackgroundImage string   `json:"backgroundImage,omitempty"`
	Genres          []string `json:"genres,omitempty"`
	Platforms       []string `json:"platforms,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	ID              int64    `json:"id"`
}

// GameInput используется для создания и обновления игры в каталоге
type GameInput struct {
	ReleaseDate *string  `json:"releaseDate,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
}

// GameInstance is a game placed into a user's personal library.
type GameInstance struct {
	AddedAt            time.Time  `json:"addedAt"`
	LastPlayed         *time.Time `json:"lastPlayed,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	GameTitle          string     `json:"gameTitle"`
	BackgroundImage    string     `json:"backgroundImage,omitempty"`
	Status             GameStatus `json:"status"`
	Genres             []string   `json:"genres,omitempty"`
	ID                 int64      `json:"id"`
	GameID             int64      `json:"gameId"`
	ProgressPercentage int        `json:"progressPercentage"`
	PlayTime           int        `json:"playTime"` // минуты
}

// GameInstanceInput используется для добавления игры в библиотеку и обновления прогресса
type GameInstanceInput struct {
	Notes              *string    `json:"notes,omitempty"`
	Status             GameStatus `json:"status,omitempty"`
	GameID             int64      `json:"gameId,omitempty"`
	ProgressPercentage *int       `json:"progressPercentage,omitempty"`
	PlayTime           *int       `json:"playTime,omitempty"`
}

// LibraryStats содержит агрегированную статистику библиотеки
type LibraryStats struct {
	StatusCounts  map[GameStatus]int `json:"statusCounts"`
	TotalGames    int                `json:"totalGames"`
	TotalPlayTime int                `json:"totalPlayTime"`
}

// Page is the paginated envelope the API returns for list endpoints.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Empty         bool `json:"empty"`
}
