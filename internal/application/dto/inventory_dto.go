package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// EntryRequest body para POST /api/stock/entries.
// Lote vacío equivale a "SEM LOTE".
type EntryRequest struct {
	Code        string          `json:"code" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"decimal_gt0"`
	Address     string          `json:"address" validate:"required"`
	Lote        string          `json:"lote"`
}

// ExitRequest body para POST /api/stock/exits.
type ExitRequest struct {
	Code     string          `json:"code" validate:"required"`
	Address  string          `json:"address" validate:"required"`
	Lote     string          `json:"lote"`
	Quantity decimal.Decimal `json:"quantity" validate:"decimal_gt0"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	Code        string          `json:"code" validate:"required"`
	FromAddress string          `json:"from_address" validate:"required"`
	ToAddress   string          `json:"to_address" validate:"required"`
	Lote        string          `json:"lote"`
	Quantity    decimal.Decimal `json:"quantity" validate:"decimal_gt0"`
}

// UpdateLoteRequest body para PATCH /api/stock/lote.
type UpdateLoteRequest struct {
	Code    string `json:"code" validate:"required"`
	Address string `json:"address" validate:"required"`
	OldLote string `json:"old_lote"`
	NewLote string `json:"new_lote"`
}

// ImportRecord fila ya normalizada por el parser de planillas.
type ImportRecord struct {
	Code        string          `json:"code" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"decimal_gt0"`
	Address     string          `json:"address" validate:"required"`
	Lote        string          `json:"lote"`
}

// ImportResult resultado de una importación (parcial si hubo error).
type ImportResult struct {
	Imported int                   `json:"imported"`
	Entries  []entity.HistoryEntry `json:"entries"`
}

// StockSummary totales del estoque.
type StockSummary struct {
	Records       int             `json:"records"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// LotTotal cantidad total de un lote (sumando todos los endereços).
type LotTotal struct {
	Lote     string          `json:"lote"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LotBreakdown desglose por lote de un código.
// AtLocation solo se informa cuando se pidió un (lote, endereço) concreto.
type LotBreakdown struct {
	Code          string           `json:"code"`
	Description   string           `json:"description,omitempty"`
	TotalQuantity decimal.Decimal  `json:"total_quantity"`
	Lots          []LotTotal       `json:"lots"`
	AtLocation    *decimal.Decimal `json:"at_location,omitempty"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token emitido.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ClearResponse cantidad de elementos eliminados.
type ClearResponse struct {
	Removed int `json:"removed"`
}
