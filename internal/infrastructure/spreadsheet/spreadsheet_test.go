package spreadsheet_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/spreadsheet"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// ─── Importación CSV ─────────────────────────────────────────────────────────

func TestParseCSV_EncabezadosConYSinAcento(t *testing.T) {
	in := "Codigo,DESCRIÇÃO, quantidade ,Endereço,lote\n" +
		"p1 ,Parafuso,10,a1,l1\n" +
		"P2,Porca,2.5,A2,\n"

	recs, err := spreadsheet.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "P1", recs[0].Code)
	assert.Equal(t, "Parafuso", recs[0].Description)
	assert.True(t, recs[0].Quantity.Equal(d("10")))
	assert.Equal(t, "A1", recs[0].Address)
	assert.Equal(t, "L1", recs[0].Lote)
	assert.Equal(t, entity.NoLote, recs[1].Lote)
	assert.True(t, recs[1].Quantity.Equal(d("2.5")))
}

func TestParseCSV_PuntoYComaYComaDecimal(t *testing.T) {
	in := "Código;Descrição;Quantidade;Endereço\nX;Item;1.234,5;R1\nY;Outro;0,75;R2\n"

	recs, err := spreadsheet.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Quantity.Equal(d("1234.5")))
	assert.True(t, recs[1].Quantity.Equal(d("0.75")))
}

func TestParseCSV_Latin1(t *testing.T) {
	utf := "Código;Descrição;Quantidade;Endereço\nX;Cabeça de máquina;1;R1\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	recs, err := spreadsheet.ParseCSV(strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Cabeça de máquina", recs[0].Description)
}

func TestParseCSV_ColumnaProductoCompuesta(t *testing.T) {
	in := "Produto,Quantidade,Endereço,Lote\nABC-1 - Chave de fenda,3,E1,L9\n"

	recs, err := spreadsheet.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ABC-1", recs[0].Code)
	assert.Equal(t, "Chave de fenda", recs[0].Description)
}

func TestParseCSV_FilasVaciasIgnoradas(t *testing.T) {
	in := "\nCódigo,Descrição,Quantidade,Endereço\n,,,\nX,Item,1,R1\n\n"

	recs, err := spreadsheet.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestParseCSV_Errores(t *testing.T) {
	cases := []struct {
		name, in, contains string
	}{
		{"faltan columnas", "Código,Quantidade\nX,1\n", "faltam colunas"},
		{"cantidad cero", "Código,Descrição,Quantidade,Endereço\nX,Item,1,R1\nY,Item,0,R1\n", "linha 3"},
		{"cantidad texto", "Código,Descrição,Quantidade,Endereço\nX,Item,dez,R1\n", "quantidade inválida"},
		{"sin endereço", "Código,Descrição,Quantidade,Endereço\nX,Item,1,\n", "endereço ausente"},
		{"compuesto inválido", "Produto,Quantidade,Endereço\nSEM SEPARADOR,1,R1\n", "linha 2"},
		{"vacía", "\n\n", "vazia"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := spreadsheet.ParseCSV(strings.NewReader(c.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRow))
			assert.Contains(t, err.Error(), c.contains)
		})
	}
}

func TestParseFile_FormatoNoSoportado(t *testing.T) {
	_, err := spreadsheet.ParseFile("estoque.ods", strings.NewReader(""))
	assert.True(t, errors.Is(err, spreadsheet.ErrUnsupportedFormat))

	_, err = spreadsheet.ParseFile("ESTOQUE.XLS", strings.NewReader(""))
	assert.True(t, errors.Is(err, spreadsheet.ErrUnsupportedFormat))
	assert.True(t, errors.Is(err, domain.ErrInvalidRow))
	assert.Contains(t, err.Error(), ".xls")
}

func TestParseCSV_SeparadoresDeMiles(t *testing.T) {
	cases := map[string]string{
		"1.234,5":      "1234.5",
		"1,234.5":      "1234.5",
		"1.234.567,25": "1234567.25",
		"1,234,567.25": "1234567.25",
		"1.234.567":    "1234567",
		"2,5":          "2.5",
		"2.5":          "2.5",
		"4E-05":        "0.00004",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			csv := "Código;Descrição;Quantidade;Endereço\nX1;P;" + in + ";A1\n"
			recs, err := spreadsheet.ParseCSV(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.True(t, recs[0].Quantity.Equal(d(want)), "%s => %s", in, recs[0].Quantity)
		})
	}
}

func TestParseCSV_SeparadoresAmbiguosRechazados(t *testing.T) {
	for _, in := range []string{"1.2,3.4", "1,2.3,4", "12,34.5", "1.23.4", "1234.567,8"} {
		t.Run(in, func(t *testing.T) {
			csv := "Código;Descrição;Quantidade;Endereço\nX1;P;" + in + ";A1\n"
			_, err := spreadsheet.ParseCSV(strings.NewReader(csv))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRow))
			assert.Contains(t, err.Error(), "quantidade inválida")
		})
	}
}

// ─── Importación XLSX ────────────────────────────────────────────────────────

func TestParseXLSX_CeldaConFormatoDeMiles(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Código", "Descrição", "Quantidade", "Endereço", "Lote"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"X1", "Parafuso", 1234.5, "A1", "L1"}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C2", style))

	formatted, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	require.Equal(t, "1,234.50", formatted)

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	recs, err := spreadsheet.ParseXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Quantity.Equal(d("1234.5")), "%s", recs[0].Quantity)
}

// ─── Exportación ─────────────────────────────────────────────────────────────

var sample = []entity.StockRecord{
	{Code: "X", Description: "Item, grande", Quantity: d("1.123456"), Address: "A1", Lote: "L1"},
	{Code: "Y", Description: "Outro", Quantity: d("2"), Address: "A2", Lote: entity.NoLote},
}

func TestWriteStockCSV_EncabezadoYValorExacto(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteStockCSV(&buf, sample))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Código,Descrição,Quantidade,Endereço,Lote", lines[0])
	assert.Equal(t, `X,"Item, grande",1.123456,A1,L1`, lines[1])
	assert.Equal(t, "Y,Outro,2,A2,SEM LOTE", lines[2])
}

func TestWriteStockCSV_ReimportaIgual(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteStockCSV(&buf, sample[1:]))

	recs, err := spreadsheet.ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Y", recs[0].Code)
	assert.Equal(t, entity.NoLote, recs[0].Lote)
}

func TestWriteStockXLSX_ReimportaIgual(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteStockXLSX(&buf, sample))

	recs, err := spreadsheet.ParseFile("estoque.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Item, grande", recs[0].Description)
	assert.True(t, recs[0].Quantity.Equal(d("1.123456")))
	assert.Equal(t, "L1", recs[0].Lote)
}

func TestWriteStock_CantidadChicaReimporta(t *testing.T) {
	tiny := []entity.StockRecord{
		{Code: "X1", Description: "P", Quantity: d("0.00004"), Address: "A1", Lote: "L1"},
		{Code: "X2", Description: "Q", Quantity: d("0.1234567890123456789"), Address: "A1", Lote: "L1"},
	}

	var csvBuf bytes.Buffer
	require.NoError(t, spreadsheet.WriteStockCSV(&csvBuf, tiny))
	assert.Contains(t, csvBuf.String(), "X1,P,0.00004,A1,L1")
	fromCSV, err := spreadsheet.ParseCSV(&csvBuf)
	require.NoError(t, err)

	var xlsxBuf bytes.Buffer
	require.NoError(t, spreadsheet.WriteStockXLSX(&xlsxBuf, tiny))
	fromXLSX, err := spreadsheet.ParseXLSX(&xlsxBuf)
	require.NoError(t, err)

	for _, recs := range [][]dto.ImportRecord{fromCSV, fromXLSX} {
		require.Len(t, recs, 2)
		assert.True(t, recs[0].Quantity.Equal(d("0.00004")), "%s", recs[0].Quantity)
		assert.True(t, recs[1].Quantity.Equal(d("0.1234567890123456789")), "%s", recs[1].Quantity)
	}
}

func TestWriteHistoryCSV(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	entries := []entity.HistoryEntry{{
		ID: "1", Timestamp: ts, Type: entity.MovementTransferencia, Code: "X", Description: "Item",
		Quantity: d("3"), FromAddress: "A1", ToAddress: "A2", Lote: "L1", Details: "Transferência",
	}}
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteHistoryCSV(&buf, entries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(spreadsheet.HistoryHeader, ","), lines[0])
	assert.Equal(t, "09/03/2024 14:05:00,TRANSFERÊNCIA,X,Item,3,A1,A2,L1,,Transferência", lines[1])
}

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "estoque_2024-01-02.csv", spreadsheet.FileName("estoque", "csv", ts))
}
