package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore guarda los blobs en un directorio badger.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore abre (o crea) la base en dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("abrir badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get devuelve nil si la clave no existe.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	return out, err
}

// Put guarda el blob.
func (s *BadgerStore) Put(_ context.Context, key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Close cierra la base.
func (s *BadgerStore) Close() error { return s.db.Close() }
