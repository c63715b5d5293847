// Package metrics expone contadores Prometheus de las operaciones del estoque.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/estoque-wms/internal/domain"
)

// Metrics agrupa las métricas del servicio. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	Operations      *prometheus.CounterVec
	Units           *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	StockRecords    prometheus.Gauge
	StockUnits      prometheus.Gauge
	HistoryEntries  prometheus.Gauge
}

// New crea las métricas en un registry propio con el namespace dado.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Operaciones del ledger por tipo y resultado",
		},
		[]string{"operation", "status"},
	)
	m.Units = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_units_total",
			Help:      "Unidades movidas por tipo de movimiento",
		},
		[]string{"type"},
	)
	m.PersistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_persist_failures_total",
			Help:      "Escrituras de snapshot fallidas",
		},
		[]string{"snapshot"},
	)
	m.StockRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stock_records",
		Help:      "Registros de estoque actuales",
	})
	m.StockUnits = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stock_units",
		Help:      "Unidades totales en estoque",
	})
	m.HistoryEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_entries",
		Help:      "Entradas en el histórico",
	})

	registry.MustRegister(m.Operations, m.Units, m.PersistFailures, m.StockRecords, m.StockUnits, m.HistoryEntries)
	return m
}

// Registry devuelve el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler devuelve el handler HTTP de exposición.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOperation cuenta una operación según su error.
func (m *Metrics) RecordOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, Status(err)).Inc()
}

// RecordUnits suma unidades movidas por tipo de movimiento.
func (m *Metrics) RecordUnits(movementType string, units float64) {
	if m == nil {
		return
	}
	m.Units.WithLabelValues(movementType).Add(units)
}

// RecordPersistFailure cuenta una escritura fallida del snapshot indicado.
func (m *Metrics) RecordPersistFailure(snapshot string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(snapshot).Inc()
}

// SetState actualiza los gauges de estado.
func (m *Metrics) SetState(records int, units float64, history int) {
	if m == nil {
		return
	}
	m.StockRecords.Set(float64(records))
	m.StockUnits.Set(units)
	m.HistoryEntries.Set(float64(history))
}

// Status traduce el error de dominio a la etiqueta status.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return "insufficient_quantity"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRow):
		return "invalid_input"
	default:
		return "error"
	}
}
