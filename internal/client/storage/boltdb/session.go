package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/ludonova/internal/client/storage"
)

// SaveSession stores both session entries in a single transaction
func (s *Storage) SaveSession(ctx context.Context, data *storage.SessionData) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if data == nil {
		return fmt.Errorf("session data is nil")
	}

	tokens, err := json.Marshal(data.Tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens entry: %w", err)
	}
	user, err := json.Marshal(data.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		// Обе записи пишутся в одной транзакции: либо обе, либо ни одной
		if err := bucket.Put([]byte(storage.EntryTokens), tokens); err != nil {
			return fmt.Errorf("failed to save tokens entry: %w", err)
		}
		if err := bucket.Put([]byte(storage.EntryUser), user); err != nil {
			return fmt.Errorf("failed to save user entry: %w", err)
		}

		return nil
	})
}

// GetSession retrieves both session entries.
// A pair with a missing or expired half is reported as ErrSessionNotFound.
func (s *Storage) GetSession(ctx context.Context) (*storage.SessionData, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var data storage.SessionData
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		rawTokens := bucket.Get([]byte(storage.EntryTokens))
		rawUser := bucket.Get([]byte(storage.EntryUser))
		if rawTokens == nil || rawUser == nil {
			return storage.ErrSessionNotFound
		}

		if err := json.Unmarshal(rawTokens, &data.Tokens); err != nil {
			return fmt.Errorf("failed to unmarshal tokens entry: %w", err)
		}
		if err := json.Unmarshal(rawUser, &data.User); err != nil {
			return fmt.Errorf("failed to unmarshal user entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	if data.Tokens.Expired(now) || data.User.Expired(now) {
		return nil, storage.ErrSessionNotFound
	}

	return &data, nil
}

// DeleteSession removes both session entries (logout). It is idempotent.
func (s *Storage) DeleteSession(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		// Delete на отсутствующем ключе в bbolt не возвращает ошибку
		if err := bucket.Delete([]byte(storage.EntryTokens)); err != nil {
			return fmt.Errorf("failed to delete tokens entry: %w", err)
		}
		if err := bucket.Delete([]byte(storage.EntryUser)); err != nil {
			return fmt.Errorf("failed to delete user entry: %w", err)
		}

		return nil
	})
}
