package metrics_test

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/metrics"
)

func TestStatus(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":          {nil, "ok"},
		"no existe":    {fmt.Errorf("%w: x", domain.ErrNotFound), "not_found"},
		"insuficiente": {domain.ErrInsufficientQuantity, "insufficient_quantity"},
		"mismo lugar":  {domain.ErrSameAddress, "invalid_input"},
		"fila":         {domain.ErrInvalidRow, "invalid_input"},
		"otro":         {errors.New("disco lleno"), "error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, metrics.Status(tc.err))
		})
	}
}

func TestMetrics_Contadores(t *testing.T) {
	m := metrics.New("test")

	m.RecordOperation("entrada", nil)
	m.RecordOperation("entrada", nil)
	m.RecordOperation("saida", domain.ErrInsufficientQuantity)
	m.RecordUnits("ENTRADA", 2.5)
	m.RecordPersistFailure("stock")
	m.SetState(3, 12.5, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("entrada", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("saida", "insufficient_quantity")))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.Units.WithLabelValues("ENTRADA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("stock")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StockRecords))
	assert.Equal(t, 12.5, testutil.ToFloat64(m.StockUnits))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.HistoryEntries))
}

func TestMetrics_NilNoFalla(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordOperation("entrada", nil)
		m.RecordUnits("ENTRADA", 1)
		m.RecordPersistFailure("history")
		m.SetState(0, 0, 0)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New("test")
	m.SetState(1, 1, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "test_stock_records 1")
	assert.Contains(t, string(body), "go_goroutines")
}
