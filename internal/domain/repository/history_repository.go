package repository

import (
	"context"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// HistoryRepository define el puerto para el snapshot del histórico (más reciente primero).
type HistoryRepository interface {
	Load(ctx context.Context) ([]entity.HistoryEntry, error)
	Save(ctx context.Context, entries []entity.HistoryEntry) error
}
