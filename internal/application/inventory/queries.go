package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// Summary cantidad de registros y unidades totales.
func (s *Service) Summary(ctx context.Context) dto.StockSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.StockSummary{
		Records:       s.ledger.Len(),
		TotalQuantity: s.ledger.TotalQuantity(),
	}
}

// LotBreakdown totales por lote del código. Si lote y address vienen informados, AtLocation
// trae la cantidad exacta en esa clave (cero si no existe). ErrNotFound si el código no tiene estoque.
func (s *Service) LotBreakdown(ctx context.Context, code, lote, address string) (dto.LotBreakdown, error) {
	code = entity.NormalizeCode(code)
	if code == "" {
		return dto.LotBreakdown{}, fmt.Errorf("%w: código é obrigatório", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	records := s.ledger.Records()
	s.mu.Unlock()

	out := dto.LotBreakdown{Code: code, TotalQuantity: decimal.Zero, Lots: []dto.LotTotal{}}
	perLot := make(map[string]decimal.Decimal)
	for _, r := range records {
		if r.Code != code {
			continue
		}
		if out.Description == "" {
			out.Description = r.Description
		}
		out.TotalQuantity = out.TotalQuantity.Add(r.Quantity)
		perLot[r.Lote] = perLot[r.Lote].Add(r.Quantity)
	}
	if len(perLot) == 0 {
		return dto.LotBreakdown{}, fmt.Errorf("%w: produto %s", domain.ErrNotFound, code)
	}

	for l, q := range perLot {
		out.Lots = append(out.Lots, dto.LotTotal{Lote: l, Quantity: q})
	}
	sort.Slice(out.Lots, func(i, j int) bool { return out.Lots[i].Lote < out.Lots[j].Lote })

	if strings.TrimSpace(lote) != "" && strings.TrimSpace(address) != "" {
		key := entity.NewKey(code, address, lote)
		qty := decimal.Zero
		for _, r := range records {
			if r.Key() == key {
				qty = r.Quantity
				break
			}
		}
		out.AtLocation = &qty
	}
	return out, nil
}

// Search filtra registros cuyo código, descripción, endereço o lote contienen query
// (sin distinguir mayúsculas). Query vacío devuelve todo.
func (s *Service) Search(ctx context.Context, query string) []entity.StockRecord {
	records := s.Stock(ctx)
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]entity.StockRecord, 0, len(records))
	for _, r := range records {
		for _, field := range []string{r.Code, r.Description, r.Address, r.Lote} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
