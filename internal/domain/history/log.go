// Package history mantiene el histórico de movimientos: solo se agrega al inicio
// (más reciente primero) y solo se borra completo.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// Log histórico de movimientos. No es seguro para uso concurrente.
type Log struct {
	entries []entity.HistoryEntry
	newID   func() string
	now     func() time.Time
}

// Option configura un Log.
type Option func(*Log)

// WithIDGenerator reemplaza el generador de ids (por defecto UUID v4).
func WithIDGenerator(fn func() string) Option {
	return func(l *Log) { l.newID = fn }
}

// WithClock reemplaza el reloj usado para el timestamp.
func WithClock(fn func() time.Time) Option {
	return func(l *Log) { l.now = fn }
}

// New construye un histórico vacío.
func New(opts ...Option) *Log {
	l := &Log{
		newID: func() string { return uuid.New().String() },
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Append completa el evento con id y fecha y lo agrega al inicio.
// No valida el contenido del evento.
func (l *Log) Append(ev entity.MovementEvent) entity.HistoryEntry {
	entry := entity.HistoryEntry{
		ID:          l.newID(),
		Timestamp:   l.now(),
		Type:        ev.Type,
		Code:        ev.Code,
		Description: ev.Description,
		Quantity:    ev.Quantity,
		FromAddress: ev.FromAddress,
		ToAddress:   ev.ToAddress,
		Lote:        ev.Lote,
		OldLote:     ev.OldLote,
		Details:     ev.Details,
	}
	l.entries = append([]entity.HistoryEntry{entry}, l.entries...)
	return entry
}

// Clear borra todo el histórico y devuelve cuántas entradas había.
func (l *Log) Clear() int {
	n := len(l.entries)
	l.entries = nil
	return n
}

// Entries copia de las entradas, más reciente primero.
func (l *Log) Entries() []entity.HistoryEntry {
	out := make([]entity.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len cantidad de entradas.
func (l *Log) Len() int { return len(l.entries) }

// Restore reemplaza el contenido con un snapshot persistido (ya ordenado).
func (l *Log) Restore(entries []entity.HistoryEntry) {
	l.entries = make([]entity.HistoryEntry, len(entries))
	copy(l.entries, entries)
}
