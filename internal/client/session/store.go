package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/ludonova/internal/client/storage"
	"github.com/iudanet/ludonova/internal/crypto"
	"github.com/iudanet/ludonova/pkg/api"
)

const (
	// DefaultTTL is the expiry horizon of persisted session entries.
	DefaultTTL = 30 * 24 * time.Hour

	metadataKeySalt = "session_kdf_salt"
)

// Options configure how entries are persisted.
type Options struct {
	SameSite storage.SameSite
	TTL      time.Duration
	Secure   bool
}

// Session is the current user together with its tokens.
type Session struct {
	Tokens api.AuthTokens
	User   api.User
}

// tokenRecord is the persisted form of AuthTokens. When Sealed is set both
// token strings are AES-GCM ciphertext.
type tokenRecord struct {
	api.AuthTokens
	Sealed bool `json:"sealed,omitempty"`
}

// Store is the single owner of the persisted session. Reads may run
// concurrently; Save, Rotate and Clear are serialized so a logout racing a
// refresh never leaves a torn pair behind.
type Store struct {
	storage storage.SessionStorage
	sealer  *crypto.Sealer
	logger  *slog.Logger
	now     func() time.Time
	opts    Options
	mu      sync.RWMutex
	stateMu sync.Mutex
	state   State
}

// NewStore creates a session store on top of raw storage
func NewStore(s storage.SessionStorage, opts Options, logger *slog.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.SameSite == "" {
		opts.SameSite = storage.SameSiteLax
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		storage: s,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		state:   StateNoSession,
	}
}

// EnableEncryption turns on at-rest encryption of token strings. The key is
// derived from passphrase and a salt kept in metadata (created on first use).
func (s *Store) EnableEncryption(ctx context.Context, meta storage.MetadataStorage, passphrase string) error {
	salt, err := meta.GetMetadata(ctx, metadataKeySalt)
	if err != nil {
		return fmt.Errorf("failed to get key salt: %w", err)
	}
	if salt == nil {
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return err
		}
		if err := meta.SaveMetadata(ctx, metadataKeySalt, salt); err != nil {
			return fmt.Errorf("failed to save key salt: %w", err)
		}
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sealer = sealer
	s.mu.Unlock()

	return nil
}

// Save persists tokens and user together (login).
// Malformed tokens are rejected with storage.ErrInvalidTokenFormat and nothing is written.
func (s *Store) Save(ctx context.Context, tokens api.AuthTokens, user api.User) error {
	if err := ValidateTokens(tokens); err != nil {
		s.logger.Warn("refusing to save session with malformed token", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(ctx, tokens, user); err != nil {
		return err
	}

	s.transition(StateAuthenticated)
	return nil
}

// Load returns the stored session or storage.ErrSessionNotFound.
// A stored pair with a malformed token is logged, cleared and reported as not found.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	sess, err := s.read(ctx)
	s.mu.RUnlock()

	if errors.Is(err, storage.ErrInvalidTokenFormat) {
		s.logger.Warn("stored session has malformed token, discarding", "error", err)
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.logger.Error("failed to clear malformed session", "error", clearErr)
		}
		return nil, storage.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.stateMu.Lock()
	if s.state == StateNoSession {
		s.setStateLocked(StateAuthenticated)
	}
	s.stateMu.Unlock()

	return sess, nil
}

// Rotate replaces the tokens of the current session after a refresh, keeping
// the cached user. It is a no-op failure (ErrSessionNotFound) when the
// session was cleared or replaced while the refresh was in flight, so a
// concurrent logout or re-login always wins.
func (s *Store) Rotate(ctx context.Context, usedRefreshToken string, tokens api.AuthTokens) error {
	if err := ValidateTokens(tokens); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx)
	if err != nil {
		return err
	}
	if current.Tokens.RefreshToken != usedRefreshToken {
		return fmt.Errorf("session changed during refresh: %w", storage.ErrSessionNotFound)
	}

	if err := s.write(ctx, tokens, current.User); err != nil {
		return err
	}

	s.transition(StateAuthenticated)
	return nil
}

// Clear removes tokens and user. It is idempotent.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.transition(StateNoSession)
	return nil
}

// IsAuthenticated reports whether a valid session is stored
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.Load(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// BeginRefresh marks the session as refreshing
func (s *Store) BeginRefresh() {
	s.transition(StateRefreshing)
}

// Expire marks the session as expired after a failed refresh. The caller is
// expected to Clear the store right after.
func (s *Store) Expire() {
	s.transition(StateExpired)
}

func (s *Store) transition(to State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.setStateLocked(to)
}

func (s *Store) setStateLocked(to State) {
	if s.state == to {
		return
	}
	s.logger.Debug("session state changed", "from", s.state.String(), "to", to.String())
	s.state = to
}

// write must be called with mu held for writing
func (s *Store) write(ctx context.Context, tokens api.AuthTokens, user api.User) error {
	record := tokenRecord{AuthTokens: tokens}
	if s.sealer != nil {
		access, err := s.sealer.SealString(tokens.AccessToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
		refresh, err := s.sealer.SealString(tokens.RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		record.AccessToken = access
		record.RefreshToken = refresh
		record.Sealed = true
	}

	rawTokens, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	expiresAt := s.now().Add(s.opts.TTL)
	data := &storage.SessionData{
		Tokens: s.entry(rawTokens, expiresAt),
		User:   s.entry(rawUser, expiresAt),
	}

	if err := s.storage.SaveSession(ctx, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) entry(value []byte, expiresAt time.Time) storage.Entry {
	return storage.Entry{
		Value:     value,
		ExpiresAt: expiresAt,
		SameSite:  s.opts.SameSite,
		Secure:    s.opts.Secure,
	}
}

// read must be called with mu held
func (s *Store) read(ctx context.Context) (*Session, error) {
	data, err := s.storage.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	var record tokenRecord
	if err := json.Unmarshal(data.Tokens.Value, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens: %w", err)
	}
	var user api.User
	if err := json.Unmarshal(data.User.Value, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	tokens := record.AuthTokens
	if record.Sealed {
		if s.sealer == nil {
			return nil, fmt.Errorf("session is encrypted: passphrase required")
		}
		if tokens.AccessToken, err = s.sealer.OpenString(record.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to decrypt access token: %w", err)
		}
		if tokens.RefreshToken, err = s.sealer.OpenString(record.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
		}
	}

	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	return &Session{Tokens: tokens, User: user}, nil
}
