package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jhoicas/estoque-wms/internal/domain/repository"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-wms/pkg/config"
)

// Repositories agrupa los dos puertos de persistencia y el cierre del backend.
type Repositories struct {
	Stock   repository.StockRepository
	History repository.HistoryRepository
	close   func() error
}

// Close libera el backend (archivo, conexión, pool).
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open construye los repositorios según cfg.Store.Driver.
//
// Drivers:
//   - memory: nada sobrevive al proceso
//   - file: un archivo JSON por clave en Store.Path
//   - bolt: un único archivo bbolt (Store.Path, se agrega .bolt si falta)
//   - badger: directorio badger en Store.Path
//   - redis: REDIS_URL, claves con REDIS_KEY_PREFIX
//   - postgres: tablas stock_records / history_entries (DATABASE_URL o DB_*)
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	if cfg.Store.Driver == config.DriverPostgres {
		return openPostgres(ctx, cfg)
	}

	var (
		s   SnapshotStore
		err error
	)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		s = NewMemoryStore()
	case config.DriverFile:
		s, err = NewFileStore(cfg.Store.Path)
	case config.DriverBolt:
		path := cfg.Store.Path
		if !strings.HasSuffix(path, ".bolt") {
			path = filepath.Join(path, "estoque.bolt")
		}
		s, err = NewBoltStore(path)
	case config.DriverBadger:
		s, err = NewBadgerStore(cfg.Store.Path)
	case config.DriverRedis:
		s, err = NewRedisStore(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix)
	default:
		return nil, fmt.Errorf("driver de almacenamiento no soportado: %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewSnapshotRepositories(s, cfg.Store.StockKey, cfg.Store.HistoryKey), nil
}

// NewSnapshotRepositories arma los repositorios sobre un SnapshotStore ya abierto.
func NewSnapshotRepositories(s SnapshotStore, stockKey, historyKey string) *Repositories {
	return &Repositories{
		Stock:   NewStockSnapshotRepository(s, stockKey),
		History: NewHistorySnapshotRepository(s, historyKey),
		close:   s.Close,
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("crear esquema: %w", err)
	}
	tx := postgres.NewTxRunner(pool)
	return &Repositories{
		Stock:   postgres.NewStockRepository(pool, tx),
		History: postgres.NewHistoryRepository(pool, tx),
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}
