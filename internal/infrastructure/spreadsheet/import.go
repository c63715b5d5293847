// Package spreadsheet lee planillas de importación (.xlsx, .csv) y exporta el estoque
// y el histórico (CSV, XLSX).
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// ErrUnsupportedFormat extensión de archivo no reconocida.
var ErrUnsupportedFormat = fmt.Errorf("%w: formato não suportado (use .xlsx ou .csv)", domain.ErrInvalidRow)

var errMissingColumns = fmt.Errorf("%w: faltam colunas obrigatórias (Código, Descrição, Quantidade, Endereço)", domain.ErrInvalidRow)

// ParseFile elige el parser según la extensión del nombre.
func ParseFile(name string, r io.Reader) ([]dto.ImportRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ParseXLSX(r)
	case ".csv", ".txt":
		return ParseCSV(r)
	case ".xls":
		return nil, fmt.Errorf("%w: .xls (Excel 97-2003) não é lido, salve como .xlsx", ErrUnsupportedFormat)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseXLSX lee la primera hoja del libro.
func ParseXLSX(r io.Reader) ([]dto.ImportRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: planilha sem abas", domain.ErrInvalidRow)
	}
	// Valor crudo: con el formato de la celda "1234.5" llegaría como "1,234.50".
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err)
	}
	return parseRows(rows)
}

// ParseCSV lee un CSV separado por ';' o ','. Si el contenido no es UTF-8 válido se
// decodifica como Windows-1252 (exportaciones de Excel en português).
func ParseCSV(r io.Reader) ([]dto.ImportRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%w: linha %d: %v", domain.ErrInvalidRow, pe.Line, pe.Err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err)
	}
	return parseRows(rows)
}

// sniffDelimiter compara ';' y ',' en la primera línea.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// parseRows interpreta la primera fila no vacía como encabezado. Los números de línea
// de los errores son los de la planilha (base 1).
func parseRows(rows [][]string) ([]dto.ImportRecord, error) {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("%w: planilha vazia", domain.ErrInvalidRow)
	}
	header := indexHeader(rows[start])
	if !header.complete() {
		return nil, errMissingColumns
	}

	out := make([]dto.ImportRecord, 0, len(rows)-start-1)
	for i := start + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		rec, err := parseRow(header, rows[i])
		if err != nil {
			return nil, fmt.Errorf("%w: linha %d: %v", domain.ErrInvalidRow, i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(h headerIndex, row []string) (dto.ImportRecord, error) {
	code := h.cell(row, colCode)
	description := h.cell(row, colDescription)
	if product := h.cell(row, colProduct); product != "" && (code == "" || description == "") {
		pc, pd, err := splitProduct(product)
		if err != nil {
			return dto.ImportRecord{}, err
		}
		if code == "" {
			code = pc
		}
		if description == "" {
			description = pd
		}
	}

	address := h.cell(row, colAddress)
	rawQty := h.cell(row, colQuantity)
	switch {
	case code == "":
		return dto.ImportRecord{}, errors.New("código ausente")
	case description == "":
		return dto.ImportRecord{}, errors.New("descrição ausente")
	case address == "":
		return dto.ImportRecord{}, errors.New("endereço ausente")
	case rawQty == "":
		return dto.ImportRecord{}, errors.New("quantidade ausente")
	}

	qty, err := parseQuantity(rawQty)
	if err != nil {
		return dto.ImportRecord{}, err
	}

	return dto.ImportRecord{
		Code:        entity.NormalizeCode(code),
		Description: description,
		Quantity:    qty,
		Address:     entity.NormalizeCode(address),
		Lote:        entity.NormalizeLote(h.cell(row, colLote)),
	}, nil
}

// splitProduct separa "CÓDIGO - DESCRIÇÃO" en el primer " - ".
func splitProduct(s string) (string, string, error) {
	code, description, ok := strings.Cut(s, " - ")
	code, description = strings.TrimSpace(code), strings.TrimSpace(description)
	if !ok || code == "" || description == "" {
		return "", "", fmt.Errorf("produto %q fora do formato CÓDIGO - DESCRIÇÃO", s)
	}
	return code, description, nil
}

// parseQuantity acepta "10", "2.5", "2,5", "1.234,5", "1,234.5" y notación científica.
// Con un solo separador de un solo uso, es el decimal. Con los dos, el último es el decimal
// y el otro tiene que agrupar miles de a tres dígitos.
func parseQuantity(s string) (decimal.Decimal, error) {
	v, ok := normalizeDecimal(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("quantidade inválida %q", s)
	}
	q, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("quantidade inválida %q", s)
	}
	if !q.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("quantidade deve ser maior que zero (%s)", s)
	}
	return q, nil
}

// normalizeDecimal lleva v a la forma con punto decimal y sin separadores de miles.
func normalizeDecimal(v string) (string, bool) {
	dot, comma := strings.LastIndex(v, "."), strings.LastIndex(v, ",")
	switch {
	case dot >= 0 && comma >= 0:
		sep, group := ",", "."
		if dot > comma {
			sep, group = ".", ","
		}
		if strings.Count(v, sep) > 1 {
			return "", false
		}
		intPart, frac, _ := strings.Cut(v, sep)
		if !grouped(intPart, group) {
			return "", false
		}
		return strings.ReplaceAll(intPart, group, "") + "." + frac, true
	case comma >= 0:
		if strings.Count(v, ",") == 1 {
			return strings.Replace(v, ",", ".", 1), true
		}
		if !grouped(v, ",") {
			return "", false
		}
		return strings.ReplaceAll(v, ",", ""), true
	case strings.Count(v, ".") > 1:
		if !grouped(v, ".") {
			return "", false
		}
		return strings.ReplaceAll(v, ".", ""), true
	}
	return v, true
}

// grouped valida separadores de miles: primer grupo de 1 a 3 dígitos, el resto de 3.
func grouped(v, sep string) bool {
	v = strings.TrimLeft(v, "+-")
	for i, part := range strings.Split(v, sep) {
		if i == 0 && (part == "" || len(part) > 3) {
			return false
		}
		if i > 0 && len(part) != 3 {
			return false
		}
	}
	return true
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
