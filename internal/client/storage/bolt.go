// Package storage keeps the CLI login durable between invocations in a BoltDB file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	authdto "todo_backend/internal/feature/auth/transport/http/dto"
)

var (
	bucketName = []byte("session")
	keyToken   = []byte("token")
	keyUser    = []byte("user")
)

// Store wraps BoltDB. It holds exactly the token and the user.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSession stores the token and user in one transaction.
func (s *Store) SaveSession(token string, user authdto.UserRes) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Put(keyToken, []byte(token)); err != nil {
			return err
		}
		return b.Put(keyUser, payload)
	})
}

// LoadSession returns the stored token and user. An empty token means no one is logged in.
func (s *Store) LoadSession() (string, *authdto.UserRes, error) {
	if s == nil || s.db == nil {
		return "", nil, bolt.ErrDatabaseNotOpen
	}
	var (
		token string
		user  *authdto.UserRes
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if v := b.Get(keyToken); v != nil {
			token = string(v)
		}
		if v := b.Get(keyUser); v != nil {
			var u authdto.UserRes
			if err := json.Unmarshal(v, &u); err != nil {
				return fmt.Errorf("decode stored user: %w", err)
			}
			user = &u
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ClearSession removes the token and user.
func (s *Store) ClearSession() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Delete(keyToken); err != nil {
			return err
		}
		return b.Delete(keyUser)
	})
}
