package repository

import (
	"context"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// StockRepository define el puerto para leer/escribir el snapshot completo del estoque.
// Load devuelve un slice vacío (sin error) si aún no hay nada persistido.
type StockRepository interface {
	Load(ctx context.Context) ([]entity.StockRecord, error)
	Save(ctx context.Context, records []entity.StockRecord) error
}
