package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// Formatos de exportación.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// StockSheet nombre de la hoja en la exportación XLSX.
const StockSheet = "Estoque"

// StockHeader columnas de la exportación de estoque, en orden.
var StockHeader = []string{"Código", "Descrição", "Quantidade", "Endereço", "Lote"}

// HistoryHeader columnas de la exportación del histórico.
var HistoryHeader = []string{"Data", "Tipo", "Código", "Descrição", "Quantidade", "Origem", "Destino", "Lote", "Lote anterior", "Detalhes"}

// HistoryTimeLayout formato de fecha del histórico exportado.
const HistoryTimeLayout = "02/01/2006 15:04:05"

// FileName nombre de descarga: prefix_AAAA-MM-DD.ext.
func FileName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02"), ext)
}

// FormatQuantity redondea a 4 decimales para mostrar en pantalla. Los archivos exportados
// llevan el valor exacto.
func FormatQuantity(q decimal.Decimal) string {
	return q.Round(4).String()
}

func stockRow(r entity.StockRecord) []string {
	return []string{r.Code, r.Description, r.Quantity.String(), r.Address, r.Lote}
}

// cellQuantity número si float64 lo representa sin pérdida; si no, texto con el valor exacto.
func cellQuantity(q decimal.Decimal) interface{} {
	f := q.InexactFloat64()
	if decimal.NewFromFloat(f).Equal(q) {
		return f
	}
	return q.String()
}

// WriteStockCSV escribe el estoque como CSV separado por comas, encabezado primero.
func WriteStockCSV(w io.Writer, records []entity.StockRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StockHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(stockRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStockXLSX escribe el estoque en la hoja "Estoque"; la cantidad va como número.
func WriteStockXLSX(w io.Writer, records []entity.StockRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), StockSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(StockHeader))
	for i, h := range StockHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(StockSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(StockSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Code, r.Description, cellQuantity(r.Quantity), r.Address, r.Lote}
		if err := f.SetSheetRow(StockSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(StockSheet, "B", "B", 40); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// WriteHistoryCSV escribe el histórico (más reciente primero).
func WriteHistoryCSV(w io.Writer, entries []entity.HistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.Format(HistoryTimeLayout),
			string(e.Type),
			e.Code,
			e.Description,
			e.Quantity.String(),
			e.FromAddress,
			e.ToAddress,
			e.Lote,
			e.OldLote,
			e.Details,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
