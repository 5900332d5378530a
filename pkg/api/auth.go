package api

// Role определяет роль пользователя в системе
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// LoginRequest представляет запрос на аутентификацию по паролю
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest представляет запрос на обмен refresh token на новую пару токенов
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthTokens is the token pair issued by the auth API on login and refresh.
// It is replaced wholesale, never patched field by field.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"` // время жизни access token в секундах
}

// SteamUser описывает привязанный Steam аккаунт
type SteamUser struct {
	SteamID     string `json:"steamId"`
	PersonaName string `json:"personaName"`
	ProfileURL  string `json:"profileUrl"`
	AvatarURL   string `json:"avatarUrl"`
}

// User is the account record returned by the API and cached next to the tokens.
type User struct {
	SteamUser *SteamUser `json:"steamUser,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Username  string     `json:"username"`
	Role      Role       `json:"role"`
	ID        int64      `json:"id"`
}

// IsAdmin reports whether the user may manage other accounts.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthResponse представляет ответ на успешный login, register или Steam callback
type AuthResponse struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// SteamLoginResponse содержит адрес OpenID провайдера Steam
type SteamLoginResponse struct {
	URL string `json:"url"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
