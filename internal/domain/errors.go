package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("registro de estoque não encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInsufficientQuantity = errors.New("quantidade insuficiente em estoque")
	ErrUnauthorized         = errors.New("não autorizado")

	// ErrSameAddress se devuelve al transferir hacia el mismo endereço de origen.
	ErrSameAddress = fmt.Errorf("%w: endereços de origem e destino devem ser diferentes", ErrInvalidInput)
	// ErrInvalidRow marca una planilla rechazada por una fila inválida.
	ErrInvalidRow = errors.New("planilha inválida")
)
