package spreadsheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type column int

const (
	colCode column = iota
	colDescription
	colQuantity
	colAddress
	colLote
	colProduct
)

// aliases nombres de encabezado aceptados, ya plegados (sin acentos, minúsculas).
var aliases = map[string]column{
	"codigo":      colCode,
	"cod":         colCode,
	"sku":         colCode,
	"descricao":   colDescription,
	"desc":        colDescription,
	"quantidade":  colQuantity,
	"qtd":         colQuantity,
	"qtde":        colQuantity,
	"endereco":    colAddress,
	"end":         colAddress,
	"localizacao": colAddress,
	"lote":        colLote,
	"produto":     colProduct,
}

// foldHeader quita acentos, espacios y mayúsculas: "  Endereço " -> "endereco".
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// headerIndex posición de cada columna conocida; la primera aparición gana.
type headerIndex map[column]int

func indexHeader(row []string) headerIndex {
	idx := make(headerIndex)
	for i, cell := range row {
		col, ok := aliases[foldHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := idx[col]; !seen {
			idx[col] = i
		}
	}
	return idx
}

func (h headerIndex) has(c column) bool {
	_, ok := h[c]
	return ok
}

// complete indica si hay columnas para código, descripción, cantidad y endereço
// (código y descripción pueden venir juntos en "Produto").
func (h headerIndex) complete() bool {
	hasIdentity := (h.has(colCode) && h.has(colDescription)) || h.has(colProduct)
	return hasIdentity && h.has(colQuantity) && h.has(colAddress)
}

func (h headerIndex) cell(row []string, c column) string {
	i, ok := h[c]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
