package api

// CreateUserRequest используется администратором для создания аккаунта
type CreateUserRequest struct {
	SteamUser     *SteamUser `json:"steamUser,omitempty"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	Role          Role       `json:"role,omitempty"`
	EmailVerified bool       `json:"emailVerified,omitempty"`
}

// UpdateUserRequest содержит изменяемые поля аккаунта; nil означает "не менять"
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}
