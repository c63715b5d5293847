// Package ledger implementa el motor de estoque: registros por (código, endereço, lote)
// con entradas, salidas, transferencias y cambios de lote.
//
// Cada mutación exitosa devuelve un entity.MovementEvent; el ledger no conoce el histórico,
// quien orquesta reenvía el evento. La validación siempre precede a la mutación: una
// operación que falla no deja cambios parciales.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// Ledger mantiene los registros en orden de inserción con un índice por clave.
// No es seguro para uso concurrente.
type Ledger struct {
	records []*entity.StockRecord
	index   map[entity.Key]int
}

// New construye un ledger vacío.
func New() *Ledger {
	return &Ledger{index: make(map[entity.Key]int)}
}

// Add suma quantity al registro de la clave o lo crea si no existe.
// En un registro existente la descripción no cambia.
func (l *Ledger) Add(code, description string, quantity decimal.Decimal, address, lote string) (entity.MovementEvent, error) {
	key := entity.NewKey(code, address, lote)
	if key.Code == "" || key.Address == "" || !quantity.IsPositive() {
		return entity.MovementEvent{}, domain.ErrInvalidInput
	}

	ev := entity.MovementEvent{
		Type:      entity.MovementEntrada,
		Code:      key.Code,
		Quantity:  quantity,
		ToAddress: key.Address,
		Lote:      key.Lote,
	}
	if rec, ok := l.get(key); ok {
		previous := rec.Quantity
		rec.Quantity = rec.Quantity.Add(quantity)
		ev.Description = rec.Description
		ev.Details = entryDetails(quantity, key, previous, rec.Quantity)
		return ev, nil
	}

	l.insert(&entity.StockRecord{
		Code:        key.Code,
		Description: description,
		Quantity:    quantity,
		Address:     key.Address,
		Lote:        key.Lote,
	})
	ev.Description = description
	ev.Details = entryDetails(quantity, key, decimal.Zero, quantity)
	return ev, nil
}

// Remove descuenta quantity del registro; si el saldo queda exactamente en cero lo elimina.
func (l *Ledger) Remove(code, address, lote string, quantity decimal.Decimal) (entity.MovementEvent, error) {
	key := entity.NewKey(code, address, lote)
	if !quantity.IsPositive() {
		return entity.MovementEvent{}, domain.ErrInvalidInput
	}
	i, ok := l.index[key]
	if !ok {
		return entity.MovementEvent{}, fmt.Errorf("%w: %s", domain.ErrNotFound, describeKey(key))
	}
	rec := l.records[i]
	if rec.Quantity.LessThan(quantity) {
		return entity.MovementEvent{}, fmt.Errorf("%w: disponível %s, solicitado %s",
			domain.ErrInsufficientQuantity, rec.Quantity, quantity)
	}

	description := rec.Description
	remaining := rec.Quantity.Sub(quantity)
	if remaining.IsZero() {
		l.deleteAt(i)
	} else {
		rec.Quantity = remaining
	}

	return entity.MovementEvent{
		Type:        entity.MovementSaida,
		Code:        key.Code,
		Description: description,
		Quantity:    quantity,
		FromAddress: key.Address,
		Lote:        key.Lote,
		Details:     exitDetails(quantity, key, remaining),
	}, nil
}

// Transfer mueve quantity de fromAddress a toAddress dentro del mismo lote.
// Ambas patas se aplican juntas: origen descontado (o eliminado) y destino sumado (o creado
// con la descripción del origen).
func (l *Ledger) Transfer(code, fromAddress, toAddress, lote string, quantity decimal.Decimal) (entity.MovementEvent, error) {
	from := entity.NewKey(code, fromAddress, lote)
	to := entity.NewKey(code, toAddress, lote)
	if to.Address == "" || !quantity.IsPositive() {
		return entity.MovementEvent{}, domain.ErrInvalidInput
	}
	if from == to {
		return entity.MovementEvent{}, domain.ErrSameAddress
	}
	i, ok := l.index[from]
	if !ok {
		return entity.MovementEvent{}, fmt.Errorf("%w: origem %s", domain.ErrNotFound, describeKey(from))
	}
	src := l.records[i]
	if src.Quantity.LessThan(quantity) {
		return entity.MovementEvent{}, fmt.Errorf("%w: disponível na origem %s, solicitado %s",
			domain.ErrInsufficientQuantity, src.Quantity, quantity)
	}

	description := src.Description
	remaining := src.Quantity.Sub(quantity)
	if remaining.IsZero() {
		l.deleteAt(i)
	} else {
		src.Quantity = remaining
	}
	if dst, ok := l.get(to); ok {
		dst.Quantity = dst.Quantity.Add(quantity)
	} else {
		l.insert(&entity.StockRecord{
			Code:        to.Code,
			Description: description,
			Quantity:    quantity,
			Address:     to.Address,
			Lote:        to.Lote,
		})
	}

	return entity.MovementEvent{
		Type:        entity.MovementTransferencia,
		Code:        from.Code,
		Description: description,
		Quantity:    quantity,
		FromAddress: from.Address,
		ToAddress:   to.Address,
		Lote:        from.Lote,
		Details:     transferDetails(quantity, from, to),
	}, nil
}

// UpdateLote cambia el lote del registro (code, address, oldLote) a newLote.
// Si ya existe un registro en la clave destino, la cantidad se suma a él y el origen se
// elimina; así nunca hay dos registros con la misma clave.
func (l *Ledger) UpdateLote(code, address, oldLote, newLote string) (entity.MovementEvent, error) {
	from := entity.NewKey(code, address, oldLote)
	to := entity.NewKey(code, address, newLote)
	if from == to {
		return entity.MovementEvent{}, fmt.Errorf("%w: o novo lote é igual ao atual", domain.ErrInvalidInput)
	}
	i, ok := l.index[from]
	if !ok {
		return entity.MovementEvent{}, fmt.Errorf("%w: %s", domain.ErrNotFound, describeKey(from))
	}
	rec := l.records[i]
	moved := rec.Quantity
	description := rec.Description

	merged := false
	if dst, ok := l.get(to); ok {
		dst.Quantity = dst.Quantity.Add(moved)
		l.deleteAt(i)
		merged = true
	} else {
		delete(l.index, from)
		rec.Lote = to.Lote
		l.index[to] = i
	}

	return entity.MovementEvent{
		Type:        entity.MovementEdicaoLote,
		Code:        from.Code,
		Description: description,
		Quantity:    moved,
		ToAddress:   from.Address,
		Lote:        to.Lote,
		OldLote:     from.Lote,
		Details:     loteDetails(moved, from, to, merged),
	}, nil
}

// Import aplica Add para cada registro, en orden. Se detiene en el primer error y
// conserva lo ya aplicado; devuelve los eventos de los registros aplicados.
func (l *Ledger) Import(records []entity.StockRecord) ([]entity.MovementEvent, error) {
	events := make([]entity.MovementEvent, 0, len(records))
	for n, r := range records {
		ev, err := l.Add(r.Code, r.Description, r.Quantity, r.Address, r.Lote)
		if err != nil {
			return events, fmt.Errorf("registro %d: %w", n+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Clear vacía el ledger y devuelve cuántos registros había.
func (l *Ledger) Clear() int {
	n := len(l.records)
	l.records = nil
	l.index = make(map[entity.Key]int)
	return n
}

// Restore reemplaza el contenido con un snapshot persistido. Claves repetidas se
// fusionan y registros sin saldo positivo se descartan.
func (l *Ledger) Restore(records []entity.StockRecord) {
	l.Clear()
	for _, r := range records {
		key := entity.NewKey(r.Code, r.Address, r.Lote)
		if key.Code == "" || key.Address == "" || !r.Quantity.IsPositive() {
			continue
		}
		if rec, ok := l.get(key); ok {
			rec.Quantity = rec.Quantity.Add(r.Quantity)
			continue
		}
		l.insert(&entity.StockRecord{
			Code:        key.Code,
			Description: r.Description,
			Quantity:    r.Quantity,
			Address:     key.Address,
			Lote:        key.Lote,
		})
	}
}

// Records devuelve una copia de los registros en orden de inserción.
func (l *Ledger) Records() []entity.StockRecord {
	out := make([]entity.StockRecord, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}
	return out
}

// Find busca el registro de la clave (normalizada).
func (l *Ledger) Find(code, address, lote string) (entity.StockRecord, bool) {
	rec, ok := l.get(entity.NewKey(code, address, lote))
	if !ok {
		return entity.StockRecord{}, false
	}
	return *rec, true
}

// Len cantidad de registros.
func (l *Ledger) Len() int { return len(l.records) }

// TotalQuantity suma de las cantidades de todos los registros.
func (l *Ledger) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.records {
		total = total.Add(r.Quantity)
	}
	return total
}

func (l *Ledger) get(key entity.Key) (*entity.StockRecord, bool) {
	i, ok := l.index[key]
	if !ok {
		return nil, false
	}
	return l.records[i], true
}

func (l *Ledger) insert(rec *entity.StockRecord) {
	l.index[rec.Key()] = len(l.records)
	l.records = append(l.records, rec)
}

// deleteAt quita el registro i y reindexa los posteriores para mantener el orden.
func (l *Ledger) deleteAt(i int) {
	delete(l.index, l.records[i].Key())
	l.records = append(l.records[:i], l.records[i+1:]...)
	for j := i; j < len(l.records); j++ {
		l.index[l.records[j].Key()] = j
	}
}
