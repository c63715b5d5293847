package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo guarda el histórico en history_entries (position 0 = más reciente).
type HistoryRepo struct {
	pool Querier
	tx   *TxRunner
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(pool Querier, tx *TxRunner) *HistoryRepo {
	return &HistoryRepo{pool: pool, tx: tx}
}

// Load lee el histórico, más reciente primero.
func (r *HistoryRepo) Load(ctx context.Context) ([]entity.HistoryEntry, error) {
	query := `
		SELECT id, ts, type, code, description, quantity, from_address, to_address, lote, old_lote, details
		FROM history_entries ORDER BY position`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	list := []entity.HistoryEntry{}
	for rows.Next() {
		var h entity.HistoryEntry
		var typ string
		if err := rows.Scan(&h.ID, &h.Timestamp, &typ, &h.Code, &h.Description, &h.Quantity,
			&h.FromAddress, &h.ToAddress, &h.Lote, &h.OldLote, &h.Details); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Type = entity.MovementType(typ)
		list = append(list, h)
	}
	return list, rows.Err()
}

// Save reemplaza el contenido de history_entries.
func (r *HistoryRepo) Save(ctx context.Context, entries []entity.HistoryEntry) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM history_entries`); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		query := `
			INSERT INTO history_entries (position, id, ts, type, code, description, quantity,
				from_address, to_address, lote, old_lote, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		for i, h := range entries {
			if _, err := q.Exec(ctx, query, i, h.ID, h.Timestamp, string(h.Type), h.Code, h.Description,
				h.Quantity, h.FromAddress, h.ToAddress, h.Lote, h.OldLote, h.Details); err != nil {
				return fmt.Errorf("insert history: %w", err)
			}
		}
		return nil
	})
}
