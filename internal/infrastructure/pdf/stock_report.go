// Package pdf genera el relatório de estoque en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título             │  fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: registros / unidades totales                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descrição | Endereço | Lote | Quantidade     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 235, Green: 240, Blue: 246}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator genera el relatório de estoque usando Maroto v2.
type StockReportGenerator struct {
	title string
}

// NewStockReportGenerator construye el generador; title aparece en el encabezado y metadatos.
func NewStockReportGenerator(title string) *StockReportGenerator {
	if title == "" {
		title = "Relatório de Estoque"
	}
	return &StockReportGenerator{title: title}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(
	_ context.Context,
	records []entity.StockRecord,
	summary dto.StockSummary,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(records)...)
	if len(records) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Nenhum produto em estoque", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s dto.StockSummary) core.Row {
	return row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Registros: %d", s.Records), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		})),
		col.New(6).Add(text.New("Quantidade total: "+formatQuantity(s.TotalQuantity), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descrição", 4, align.Left),
		h("Endereço", 2, align.Left),
		h("Lote", 2, align.Left),
		h("Quantidade", 2, align.Right),
	)
}

// tableRows una fila por registro, con fondo alternado.
func tableRows(records []entity.StockRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for i, r := range records {
		cell := func(v string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		rw := row.New(6).Add(
			cell(r.Code, 2, align.Left),
			cell(r.Description, 4, align.Left),
			cell(r.Address, 2, align.Left),
			cell(r.Lote, 2, align.Left),
			cell(formatQuantity(r.Quantity), 2, align.Right),
		)
		if i%2 == 1 {
			rw = rw.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, rw)
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQuantity formato pt-BR con hasta 4 decimales.
// Ej: 1234.5 → "1.234,5", 10 → "10"
func formatQuantity(q decimal.Decimal) string {
	s := q.Round(4).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles: "1000000" → "1.000.000".
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
