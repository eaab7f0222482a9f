// Package keystore persists named signing keys in a small bolt database so
// policy programs can reference signers by name instead of pasting raw key
// material into every file.
package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	bolt "go.etcd.io/bbolt"
)

var bucketKeys = []byte("keys")

var (
	ErrBadName  = errors.New("invalid key name")
	ErrNotFound = errors.New("key not found")
)

// Store is a named key database backed by a single bolt file.
type Store struct {
	db *bolt.DB
}

// DefaultPath returns the per user key store location, ~/.minsc/keys.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".minsc", "keys.db"), nil
}

// Open opens the key store at path, creating the file and its directory on
// first use. The open times out rather than blocking forever when another
// process holds the file lock.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKeys)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ValidName reports whether name can appear as an identifier in a policy
// program. '$' prefixed names are reserved for the runtime.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, "$") {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// Put stores key under name, replacing any previous value.
func (s *Store) Put(name, key string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: '%s'", ErrBadName, name)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKeys).Put([]byte(name), []byte(key))
	})
}

// Get returns the key stored under name.
func (s *Store) Get(name string) (string, error) {
	var key string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketKeys).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: '%s'", ErrNotFound, name)
		}
		key = string(v)
		return nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the key stored under name.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKeys)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: '%s'", ErrNotFound, name)
		}
		return b.Delete([]byte(name))
	})
}

// Entry is one stored key.
type Entry struct {
	Name string
	Key  string
}

// List returns every stored key. Bolt iterates buckets in byte order, so
// the result comes back sorted by name.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKeys).ForEach(func(k, v []byte) error {
			entries = append(entries, Entry{Name: string(k), Key: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// All returns the stored keys as a name to key map, the shape the loader
// takes for preloading.
func (s *Store) All() (map[string]string, error) {
	keys := map[string]string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKeys).ForEach(func(k, v []byte) error {
			keys[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
