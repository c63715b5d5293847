package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/domain/repository"
)

var (
	_ repository.StockRepository   = (*StockSnapshotRepository)(nil)
	_ repository.HistoryRepository = (*HistorySnapshotRepository)(nil)
)

// stockDoc formato persistido de un registro; quantity como número JSON.
type stockDoc struct {
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	Address     string      `json:"address"`
	Lote        string      `json:"lote"`
}

type historyDoc struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Type        string      `json:"type"`
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	FromAddress string      `json:"fromAddress,omitempty"`
	ToAddress   string      `json:"toAddress,omitempty"`
	Lote        string      `json:"lote"`
	OldLote     string      `json:"oldLote,omitempty"`
	Details     string      `json:"details"`
}

// StockSnapshotRepository implementa repository.StockRepository sobre un SnapshotStore.
type StockSnapshotRepository struct {
	store SnapshotStore
	key   string
}

// NewStockSnapshotRepository construye el adaptador. key vacío usa DefaultStockKey.
func NewStockSnapshotRepository(s SnapshotStore, key string) *StockSnapshotRepository {
	if key == "" {
		key = DefaultStockKey
	}
	return &StockSnapshotRepository{store: s, key: key}
}

// Load lee el snapshot del estoque.
func (r *StockSnapshotRepository) Load(ctx context.Context) ([]entity.StockRecord, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", r.key, err)
	}
	if len(data) == 0 {
		return []entity.StockRecord{}, nil
	}
	var docs []stockDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", r.key, err)
	}
	out := make([]entity.StockRecord, 0, len(docs))
	for _, d := range docs {
		qty, err := parseQuantity(d.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decodificar %s: %w", r.key, err)
		}
		out = append(out, entity.StockRecord{
			Code:        d.Code,
			Description: d.Description,
			Quantity:    qty,
			Address:     d.Address,
			Lote:        d.Lote,
		})
	}
	return out, nil
}

// Save reemplaza el snapshot del estoque.
func (r *StockSnapshotRepository) Save(ctx context.Context, records []entity.StockRecord) error {
	docs := make([]stockDoc, len(records))
	for i, rec := range records {
		docs[i] = stockDoc{
			Code:        rec.Code,
			Description: rec.Description,
			Quantity:    json.Number(rec.Quantity.String()),
			Address:     rec.Address,
			Lote:        rec.Lote,
		}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("codificar %s: %w", r.key, err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("escribir %s: %w", r.key, err)
	}
	return nil
}

// HistorySnapshotRepository implementa repository.HistoryRepository sobre un SnapshotStore.
type HistorySnapshotRepository struct {
	store SnapshotStore
	key   string
}

// NewHistorySnapshotRepository construye el adaptador. key vacío usa DefaultHistoryKey.
func NewHistorySnapshotRepository(s SnapshotStore, key string) *HistorySnapshotRepository {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &HistorySnapshotRepository{store: s, key: key}
}

// Load lee el snapshot del histórico.
func (r *HistorySnapshotRepository) Load(ctx context.Context) ([]entity.HistoryEntry, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", r.key, err)
	}
	if len(data) == 0 {
		return []entity.HistoryEntry{}, nil
	}
	var docs []historyDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", r.key, err)
	}
	out := make([]entity.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		qty, err := parseQuantity(d.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decodificar %s: %w", r.key, err)
		}
		out = append(out, entity.HistoryEntry{
			ID:          d.ID,
			Timestamp:   d.Timestamp,
			Type:        entity.MovementType(d.Type),
			Code:        d.Code,
			Description: d.Description,
			Quantity:    qty,
			FromAddress: d.FromAddress,
			ToAddress:   d.ToAddress,
			Lote:        d.Lote,
			OldLote:     d.OldLote,
			Details:     d.Details,
		})
	}
	return out, nil
}

// Save reemplaza el snapshot del histórico.
func (r *HistorySnapshotRepository) Save(ctx context.Context, entries []entity.HistoryEntry) error {
	docs := make([]historyDoc, len(entries))
	for i, e := range entries {
		docs[i] = historyDoc{
			ID:          e.ID,
			Timestamp:   e.Timestamp,
			Type:        string(e.Type),
			Code:        e.Code,
			Description: e.Description,
			Quantity:    json.Number(e.Quantity.String()),
			FromAddress: e.FromAddress,
			ToAddress:   e.ToAddress,
			Lote:        e.Lote,
			OldLote:     e.OldLote,
			Details:     e.Details,
		}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("codificar %s: %w", r.key, err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("escribir %s: %w", r.key, err)
	}
	return nil
}

func parseQuantity(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	q, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantity %q: %w", n, err)
	}
	return q, nil
}
