package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo guarda el snapshot del estoque en la tabla stock_records.
// Save reemplaza todas las filas dentro de una transacción.
type StockRepo struct {
	pool Querier
	tx   *TxRunner
}

// NewStockRepository construye el adaptador.
func NewStockRepository(pool Querier, tx *TxRunner) *StockRepo {
	return &StockRepo{pool: pool, tx: tx}
}

// Load lee los registros en el orden en que fueron guardados.
func (r *StockRepo) Load(ctx context.Context) ([]entity.StockRecord, error) {
	query := `
		SELECT code, description, quantity, address, lote
		FROM stock_records ORDER BY position`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := []entity.StockRecord{}
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.Code, &s.Description, &s.Quantity, &s.Address, &s.Lote); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Save reemplaza el contenido de stock_records.
func (r *StockRepo) Save(ctx context.Context, records []entity.StockRecord) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM stock_records`); err != nil {
			return fmt.Errorf("delete stock: %w", err)
		}
		query := `
			INSERT INTO stock_records (position, code, description, quantity, address, lote)
			VALUES ($1, $2, $3, $4, $5, $6)`
		for i, s := range records {
			if _, err := q.Exec(ctx, query, i, s.Code, s.Description, s.Quantity, s.Address, s.Lote); err != nil {
				return fmt.Errorf("insert stock: %w", err)
			}
		}
		return nil
	})
}
