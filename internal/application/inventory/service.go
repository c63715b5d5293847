// Package inventory orquesta el ledger de estoque y el histórico: valida la entrada,
// aplica la operación, registra el evento en el histórico y persiste ambos snapshots.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/domain/history"
	"github.com/jhoicas/estoque-wms/internal/domain/ledger"
	"github.com/jhoicas/estoque-wms/internal/domain/repository"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/metrics"
	"github.com/jhoicas/estoque-wms/pkg/logger"
)

// Nombres de operación usados en logs y métricas.
const (
	OpEntry        = "entrada"
	OpExit         = "saida"
	OpTransfer     = "transferencia"
	OpUpdateLote   = "edicao_lote"
	OpImport       = "importacao"
	OpClearStock   = "limpar_estoque"
	OpClearHistory = "limpar_historico"
)

// Service dueño del ledger y del histórico. Seguro para uso concurrente: cada operación
// se serializa con un mutex.
type Service struct {
	mu          sync.Mutex
	ledger      *ledger.Ledger
	history     *history.Log
	stockRepo   repository.StockRepository
	historyRepo repository.HistoryRepository
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// Option configura un Service.
type Option func(*Service)

// WithLogger inyecta el logger (por defecto Nop).
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.Component("inventory") }
}

// WithMetrics inyecta las métricas Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHistoryLog reemplaza el histórico (ej. con reloj fijo en tests).
func WithHistoryLog(h *history.Log) Option {
	return func(s *Service) { s.history = h }
}

// NewService construye el servicio con estoque e histórico vacíos; usar Load para restaurar.
func NewService(stockRepo repository.StockRepository, historyRepo repository.HistoryRepository, opts ...Option) *Service {
	s := &Service{
		ledger:      ledger.New(),
		history:     history.New(),
		stockRepo:   stockRepo,
		historyRepo: historyRepo,
		log:         logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load restaura estoque e histórico desde los repositorios.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.stockRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("cargar estoque: %w", err)
	}
	entries, err := s.historyRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("cargar histórico: %w", err)
	}
	s.ledger.Restore(records)
	s.history.Restore(entries)
	s.updateGauges()

	s.log.Info().
		Int("records", s.ledger.Len()).
		Int("history", s.history.Len()).
		Msg("estado restaurado")
	return nil
}

// RegisterEntry suma cantidad a un registro o lo crea.
func (s *Service) RegisterEntry(ctx context.Context, in dto.EntryRequest) (entity.HistoryEntry, error) {
	in.Code, in.Description, in.Address, in.Lote = trim(in.Code), trim(in.Description), trim(in.Address), trim(in.Lote)
	if err := validateInput(in); err != nil {
		return entity.HistoryEntry{}, s.reject(OpEntry, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.ledger.Add(in.Code, in.Description, in.Quantity, in.Address, in.Lote)
	if err != nil {
		return entity.HistoryEntry{}, s.reject(OpEntry, err)
	}
	return s.commit(ctx, OpEntry, ev), nil
}

// RegisterExit descuenta cantidad de un registro existente.
func (s *Service) RegisterExit(ctx context.Context, in dto.ExitRequest) (entity.HistoryEntry, error) {
	in.Code, in.Address, in.Lote = trim(in.Code), trim(in.Address), trim(in.Lote)
	if err := validateInput(in); err != nil {
		return entity.HistoryEntry{}, s.reject(OpExit, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.ledger.Remove(in.Code, in.Address, in.Lote, in.Quantity)
	if err != nil {
		return entity.HistoryEntry{}, s.reject(OpExit, err)
	}
	return s.commit(ctx, OpExit, ev), nil
}

// Transfer mueve cantidad entre endereços dentro del mismo lote.
func (s *Service) Transfer(ctx context.Context, in dto.TransferRequest) (entity.HistoryEntry, error) {
	in.Code, in.FromAddress, in.ToAddress, in.Lote = trim(in.Code), trim(in.FromAddress), trim(in.ToAddress), trim(in.Lote)
	if err := validateInput(in); err != nil {
		return entity.HistoryEntry{}, s.reject(OpTransfer, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.ledger.Transfer(in.Code, in.FromAddress, in.ToAddress, in.Lote, in.Quantity)
	if err != nil {
		return entity.HistoryEntry{}, s.reject(OpTransfer, err)
	}
	return s.commit(ctx, OpTransfer, ev), nil
}

// UpdateLote cambia el lote de un registro.
func (s *Service) UpdateLote(ctx context.Context, in dto.UpdateLoteRequest) (entity.HistoryEntry, error) {
	in.Code, in.Address, in.OldLote, in.NewLote = trim(in.Code), trim(in.Address), trim(in.OldLote), trim(in.NewLote)
	if err := validateInput(in); err != nil {
		return entity.HistoryEntry{}, s.reject(OpUpdateLote, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.ledger.UpdateLote(in.Code, in.Address, in.OldLote, in.NewLote)
	if err != nil {
		return entity.HistoryEntry{}, s.reject(OpUpdateLote, err)
	}
	return s.commit(ctx, OpUpdateLote, ev), nil
}

// Import aplica los registros en orden. En el primer registro inválido se detiene:
// lo ya aplicado queda confirmado y persistido, y se devuelve junto con el error.
func (s *Service) Import(ctx context.Context, records []dto.ImportRecord) (dto.ImportResult, error) {
	valid := make([]entity.StockRecord, 0, len(records))
	var firstErr error
	for n, r := range records {
		r.Code, r.Description, r.Address, r.Lote = trim(r.Code), trim(r.Description), trim(r.Address), trim(r.Lote)
		if err := validateInput(r); err != nil {
			firstErr = fmt.Errorf("registro %d: %w", n+1, err)
			break
		}
		valid = append(valid, entity.StockRecord{
			Code:        r.Code,
			Description: r.Description,
			Quantity:    r.Quantity,
			Address:     r.Address,
			Lote:        r.Lote,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.ledger.Import(valid)
	if err != nil {
		firstErr = err
	}

	result := dto.ImportResult{Entries: make([]entity.HistoryEntry, 0, len(events))}
	for _, ev := range events {
		result.Entries = append(result.Entries, s.history.Append(ev))
		s.metrics.RecordUnits(string(ev.Type), ev.Quantity.InexactFloat64())
	}
	result.Imported = len(events)
	if len(events) > 0 {
		s.persistStock(ctx)
		s.persistHistory(ctx)
		s.updateGauges()
	}

	s.metrics.RecordOperation(OpImport, firstErr)
	if firstErr != nil {
		s.log.Warn().Err(firstErr).Int("imported", result.Imported).Int("total", len(records)).Msg("importação interrompida")
		return result, firstErr
	}
	s.log.Info().Int("imported", result.Imported).Msg("importação concluída")
	return result, nil
}

// ClearStock borra todos los registros. No genera entrada en el histórico.
func (s *Service) ClearStock(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ledger.Clear()
	s.persistStock(ctx)
	s.updateGauges()
	s.metrics.RecordOperation(OpClearStock, nil)
	s.log.Warn().Int("removed", n).Msg("estoque limpo")
	return n
}

// ClearHistory borra todo el histórico.
func (s *Service) ClearHistory(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.history.Clear()
	s.persistHistory(ctx)
	s.updateGauges()
	s.metrics.RecordOperation(OpClearHistory, nil)
	s.log.Warn().Int("removed", n).Msg("histórico limpo")
	return n
}

// Stock copia de los registros en orden de inserción.
func (s *Service) Stock(ctx context.Context) []entity.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Records()
}

// History copia del histórico, más reciente primero.
func (s *Service) History(ctx context.Context) []entity.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// commit registra el evento en el histórico y persiste. Debe llamarse con mu tomado.
func (s *Service) commit(ctx context.Context, op string, ev entity.MovementEvent) entity.HistoryEntry {
	entry := s.history.Append(ev)
	s.persistStock(ctx)
	s.persistHistory(ctx)
	s.updateGauges()

	s.metrics.RecordOperation(op, nil)
	s.metrics.RecordUnits(string(ev.Type), ev.Quantity.InexactFloat64())
	s.log.Info().
		Str("operation", op).
		Str("code", entry.Code).
		Str("quantity", entry.Quantity.String()).
		Str("from", entry.FromAddress).
		Str("to", entry.ToAddress).
		Str("lote", entry.Lote).
		Str("history_id", entry.ID).
		Msg("movimento registrado")
	return entry
}

func (s *Service) reject(op string, err error) error {
	s.metrics.RecordOperation(op, err)
	s.log.Warn().Err(err).Str("operation", op).Msg("operação rejeitada")
	return err
}

// persistStock escribe el snapshot; un error se registra y no se propaga.
func (s *Service) persistStock(ctx context.Context) {
	if err := s.stockRepo.Save(ctx, s.ledger.Records()); err != nil {
		s.metrics.RecordPersistFailure("stock")
		s.log.Error().Err(err).Msg("falha ao persistir estoque")
	}
}

func (s *Service) persistHistory(ctx context.Context) {
	if err := s.historyRepo.Save(ctx, s.history.Entries()); err != nil {
		s.metrics.RecordPersistFailure("history")
		s.log.Error().Err(err).Msg("falha ao persistir histórico")
	}
}

func (s *Service) updateGauges() {
	s.metrics.SetState(s.ledger.Len(), s.ledger.TotalQuantity().InexactFloat64(), s.history.Len())
}

func trim(v string) string { return strings.TrimSpace(v) }
