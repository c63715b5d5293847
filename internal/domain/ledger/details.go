package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-wms/internal/domain/entity"
)

// Textos legibles del histórico (en portugués, como los ve el operador).

func describeKey(k entity.Key) string {
	return fmt.Sprintf("produto %s, endereço %s, lote %s", k.Code, k.Address, k.Lote)
}

func entryDetails(qty decimal.Decimal, k entity.Key, previous, current decimal.Decimal) string {
	if previous.IsZero() {
		return fmt.Sprintf("Entrada de %s unidade(s) no endereço %s, lote %s (novo registro)", qty, k.Address, k.Lote)
	}
	return fmt.Sprintf("Entrada de %s unidade(s) no endereço %s, lote %s. Quantidade anterior: %s, atual: %s",
		qty, k.Address, k.Lote, previous, current)
}

func exitDetails(qty decimal.Decimal, k entity.Key, remaining decimal.Decimal) string {
	if remaining.IsZero() {
		return fmt.Sprintf("Saída de %s unidade(s) do endereço %s, lote %s. Registro zerado e removido", qty, k.Address, k.Lote)
	}
	return fmt.Sprintf("Saída de %s unidade(s) do endereço %s, lote %s. Restante: %s", qty, k.Address, k.Lote, remaining)
}

func transferDetails(qty decimal.Decimal, from, to entity.Key) string {
	return fmt.Sprintf("Transferência de %s unidade(s) de %s para %s, lote %s", qty, from.Address, to.Address, from.Lote)
}

func loteDetails(qty decimal.Decimal, from, to entity.Key, merged bool) string {
	if merged {
		return fmt.Sprintf("Lote alterado de %s para %s no endereço %s (%s unidade(s) somadas ao lote existente)",
			from.Lote, to.Lote, from.Address, qty)
	}
	return fmt.Sprintf("Lote alterado de %s para %s no endereço %s (%s unidade(s))", from.Lote, to.Lote, from.Address, qty)
}
