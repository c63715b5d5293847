package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var snapshotsBucket = []byte("snapshots")

// BoltStore guarda los blobs en un único archivo bbolt, bucket "snapshots".
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore abre (o crea) la base en path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio para bolt: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout:      1 * time.Second,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, fmt.Errorf("abrir bolt: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("crear bucket snapshots: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Get copia el valor: los bytes de bbolt solo valen dentro de la transacción.
func (s *BoltStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(snapshotsBucket).Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// Put guarda el blob en una transacción de escritura.
func (s *BoltStore) Put(_ context.Context, key string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put([]byte(key), data)
	})
}

// Close cierra la base.
func (s *BoltStore) Close() error { return s.db.Close() }
