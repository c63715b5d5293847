package entity

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoLote es el lote asignado cuando la entrada no informa uno.
const NoLote = "SEM LOTE"

// StockRecord representa el saldo de un producto en un endereço y lote.
// La terna (Code, Address, Lote) es única dentro del ledger.
type StockRecord struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Address     string          `json:"address"`
	Lote        string          `json:"lote"`
}

// Key devuelve la clave natural del registro.
func (r StockRecord) Key() Key {
	return Key{Code: r.Code, Address: r.Address, Lote: r.Lote}
}

// Key es la clave natural (código, endereço, lote) de un registro de estoque.
type Key struct {
	Code    string
	Address string
	Lote    string
}

// NewKey construye una clave normalizada.
func NewKey(code, address, lote string) Key {
	return Key{Code: NormalizeCode(code), Address: NormalizeCode(address), Lote: NormalizeLote(lote)}
}

// NormalizeCode recorta espacios y pasa a mayúsculas (códigos y endereços).
func NormalizeCode(s string) string {
	// cases.Caser guarda estado: uno nuevo por llamada.
	return cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(s))
}

// NormalizeLote normaliza como NormalizeCode; vacío equivale a NoLote.
func NormalizeLote(s string) string {
	l := NormalizeCode(s)
	if l == "" {
		return NoLote
	}
	return l
}
