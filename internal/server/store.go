package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"hitbox-editor/internal/definition"
)

const (
	boltTimeout = 10 * time.Second

	definitionsBucket = "definitions"
	spritesBucket     = "sprites"
)

// ErrNotFound is returned when a key has no stored record.
var ErrNotFound = errors.New("not found")

// Store persists definitions and sprite sheets in a bbolt database.
// Definitions are stored as JSON, sprites as raw encoded image bytes.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens (or creates) the database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, os.FileMode(0600), &bbolt.Options{Timeout: boltTimeout})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range []string{definitionsBucket, spritesBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Definition returns the stored definition for a key.
func (s *Store) Definition(key string) (*definition.Definition, error) {
	var def definition.Definition
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(definitionsBucket)).Get([]byte(key))
		if raw == nil {
			return fmt.Errorf("%w: definition %s", ErrNotFound, key)
		}
		return json.Unmarshal(raw, &def)
	})
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// PutDefinition stores a definition under the given key.
func (s *Store) PutDefinition(key string, def *definition.Definition) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(definitionsBucket)).Put([]byte(key), raw)
	})
}

// Sprite returns the stored sprite bytes for a sprite path.
func (s *Store) Sprite(path string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(spritesBucket)).Get([]byte(path))
		if raw == nil {
			return fmt.Errorf("%w: sprite %s", ErrNotFound, path)
		}
		data = append(data, raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PutSprite stores encoded sprite bytes under a sprite path.
func (s *Store) PutSprite(path string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(spritesBucket)).Put([]byte(path), data)
	})
}
