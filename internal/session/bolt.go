package session

import (
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketName = []byte("session")
	tokenKey   = []byte("token")
)

// BoltStore persists the session token in a bbolt file, surviving restarts.
type BoltStore struct {
	db *bolt.DB
}

// DefaultPath returns the token store location under the user's home
// directory (~/.tunewave/session.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tunewave", "session.db"), nil
}

// OpenBolt opens (creating if necessary) the token store at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get returns the stored token, if any. No side effects.
func (s *BoltStore) Get() (string, bool) {
	var token string
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(tokenKey); v != nil {
			token = string(v)
		}
		return nil
	})
	return token, token != ""
}

// Set persists the token, replacing any previous one.
func (s *BoltStore) Set(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(tokenKey, []byte(token))
	})
}

// Clear removes the stored token.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(tokenKey)
	})
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BoltStore)(nil)
