// Package store implementa el almacenamiento durable del estoque y del histórico como
// dos blobs JSON con clave (por defecto wms_stock_data y wms_history_data).
//
// Cada backend (memoria, archivo, bbolt, badger, redis) implementa SnapshotStore;
// StockSnapshotRepository y HistorySnapshotRepository adaptan ese blob a los puertos
// del dominio.
package store

import "context"

// Claves por defecto de los snapshots.
const (
	DefaultStockKey   = "wms_stock_data"
	DefaultHistoryKey = "wms_history_data"
)

// SnapshotStore guarda blobs completos por clave.
// Get devuelve nil, nil si la clave no existe.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}
