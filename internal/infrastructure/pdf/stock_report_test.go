package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/pdf"
)

func TestGenerateStockReport_DevuelvePDF(t *testing.T) {
	records := []entity.StockRecord{
		{Code: "X", Description: "Item", Quantity: decimal.NewFromInt(3), Address: "A1", Lote: "L1"},
		{Code: "Y", Description: "Outro", Quantity: decimal.RequireFromString("1.5"), Address: "A2", Lote: entity.NoLote},
	}
	g := pdf.NewStockReportGenerator("")

	out, err := g.GenerateStockReport(context.Background(), records,
		dto.StockSummary{Records: 2, TotalQuantity: decimal.RequireFromString("4.5")}, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockReport_SinRegistros(t *testing.T) {
	g := pdf.NewStockReportGenerator("Estoque")

	out, err := g.GenerateStockReport(context.Background(), nil, dto.StockSummary{}, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
