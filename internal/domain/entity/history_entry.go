package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType etiqueta cerrada de los movimientos del histórico.
type MovementType string

// Tipos de movimiento registrados en el histórico.
const (
	MovementEntrada       MovementType = "ENTRADA"       // entrada de mercadería
	MovementSaida         MovementType = "SAÍDA"         // salida
	MovementTransferencia MovementType = "TRANSFERÊNCIA" // entre endereços
	MovementEdicaoLote    MovementType = "EDIÇÃO_LOTE"   // cambio de lote
)

// IsValid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementEntrada, MovementSaida, MovementTransferencia, MovementEdicaoLote:
		return true
	default:
		return false
	}
}

// HistoryEntry es una entrada inmutable del histórico de movimientos.
// FromAddress/ToAddress y OldLote se completan según el tipo.
type HistoryEntry struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        MovementType    `json:"type"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	FromAddress string          `json:"fromAddress,omitempty"`
	ToAddress   string          `json:"toAddress,omitempty"`
	Lote        string          `json:"lote"`
	OldLote     string          `json:"oldLote,omitempty"`
	Details     string          `json:"details"`
}

// MovementEvent describe una mutación ya aplicada en el ledger, sin id ni fecha.
// El histórico la completa al registrarla.
type MovementEvent struct {
	Type        MovementType
	Code        string
	Description string
	Quantity    decimal.Decimal
	FromAddress string
	ToAddress   string
	Lote        string
	OldLote     string
	Details     string
}
