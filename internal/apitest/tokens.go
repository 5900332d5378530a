package apitest

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/ludonova/pkg/api"
)

const issuer = "ludonova-api"

// Claims представляет JWT claims access токена
type Claims struct {
	Username string   `json:"username"`
	Role     api.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer выпускает пары токенов так же, как это делает боевой API:
// access token это HS256 JWT, refresh token случайная одноразовая строка.
type TokenIssuer struct {
	now        func() time.Time
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer создает issuer с заданным временем жизни токенов
func NewTokenIssuer(secret []byte, accessTTL, refreshTTL time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// IssueAccessToken подписывает JWT для user
func (i *TokenIssuer) IssueAccessToken(user api.User) (string, error) {
	now := i.now()

	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ValidateAccessToken проверяет подпись и срок действия access токена
func (i *TokenIssuer) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// IssueRefreshToken генерирует случайный refresh token и срок его действия
func (i *TokenIssuer) IssueRefreshToken() (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(tokenBytes), i.now().Add(i.refreshTTL), nil
}

// Issue выпускает полную пару токенов
func (i *TokenIssuer) Issue(user api.User) (api.AuthTokens, time.Time, error) {
	access, err := i.IssueAccessToken(user)
	if err != nil {
		return api.AuthTokens{}, time.Time{}, err
	}
	refresh, refreshExpiresAt, err := i.IssueRefreshToken()
	if err != nil {
		return api.AuthTokens{}, time.Time{}, err
	}

	return api.AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(i.accessTTL.Seconds()),
	}, refreshExpiresAt, nil
}
