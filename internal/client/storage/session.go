package storage

import (
	"context"
	"time"
)

// Names of the two persisted session entries.
const (
	EntryTokens = "auth-tokens"
	EntryUser   = "auth-user"
)

// SameSite mirrors cookie SameSite semantics for persisted entries.
type SameSite string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
)

// EntryOptions задают срок жизни и атрибуты сохраняемых записей
type EntryOptions struct {
	SameSite SameSite
	TTL      time.Duration
	Secure   bool
}

// Entry is one persisted value with its cookie-like attributes.
// Value holds raw JSON (tokens may already be encrypted at this layer).
type Entry struct {
	ExpiresAt time.Time `json:"expires_at"`
	SameSite  SameSite  `json:"same_site"`
	Value     []byte    `json:"value"`
	Secure    bool      `json:"secure"`
}

// Expired reports whether the entry is past its expiry horizon at now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// SessionData is the tokens/user pair as stored. Both fields are always
// present together.
type SessionData struct {
	Tokens Entry
	User   Entry
}

// SessionStorage defines interface for persisting the session pair on client.
// This is the lowest storage layer - it works with raw bytes and doesn't
// validate or decrypt tokens.
type SessionStorage interface {
	// SaveSession writes both entries in one transaction
	SaveSession(ctx context.Context, data *SessionData) error

	// GetSession reads both entries in one transaction.
	// Returns ErrSessionNotFound if either entry is missing or expired.
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes both entries. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context) error
}

// MetadataStorage stores small client-local values (e.g. key derivation salt).
type MetadataStorage interface {
	// GetMetadata returns nil, nil when the key is absent
	GetMetadata(ctx context.Context, key string) ([]byte, error)
	SaveMetadata(ctx context.Context, key string, value []byte) error
}
