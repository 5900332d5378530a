package session

import (
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/ludonova/internal/client/storage"
	"github.com/iudanet/ludonova/pkg/api"
)

// tokenPattern is the RFC 6750 b64token syntax: the only characters that may
// appear after "Bearer " in an Authorization header.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9\-._~+/]+=*$`)

// ValidateToken проверяет, что токен можно передать в заголовке Authorization
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is empty", storage.ErrInvalidTokenFormat)
	}
	if !tokenPattern.MatchString(token) {
		return fmt.Errorf("%w: token contains characters not allowed in a bearer credential", storage.ErrInvalidTokenFormat)
	}
	return nil
}

// ValidateTokens validates both halves of a token pair.
func ValidateTokens(tokens api.AuthTokens) error {
	if err := ValidateToken(tokens.AccessToken); err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	if err := ValidateToken(tokens.RefreshToken); err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	return nil
}

// AccessTokenExpiry returns the exp claim of a JWT access token.
// The signature is not verified: the client only uses it for display.
// ok is false for opaque tokens and JWTs without exp.
func AccessTokenExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return time.Time{}, false
	}

	return expiresAt.Time, true
}

// MaskToken оставляет только начало токена для логов
func MaskToken(token string) string {
	const visible = 6
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "..."
}
