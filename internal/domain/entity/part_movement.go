package entity

import (
	"fmt"
	"time"
)

// Dirección de un movimiento de stock.
const (
	MovementTypeIn  = "in"
	MovementTypeOut = "out"
)

// Tipos de documento de origen de un movimiento (referencia polimórfica:
// discriminador + id, resuelta por lookup explícito según el tipo).
const (
	ReferenceTypeReceivings = "Receivings"
	ReferenceTypeOutgoings  = "Outgoings"
)

// PartMovement es una entrada inmutable del ledger de stock. Solo se inserta,
// nunca se actualiza ni se borra. StockBefore se captura bajo candado de fila
// antes de mutar la parte.
type PartMovement struct {
	ID            string
	PartID        string
	StockBefore   int
	Type          string
	Qty           int
	StockAfter    int
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
}

// Validate verifica el invariante aritmético del ledger:
// stock_after - stock_before == +qty (in) / -qty (out), con qty > 0.
func (m *PartMovement) Validate() error {
	if m.Qty <= 0 {
		return fmt.Errorf("movimiento con qty no positiva: %d", m.Qty)
	}
	switch m.Type {
	case MovementTypeIn:
		if m.StockAfter-m.StockBefore != m.Qty {
			return fmt.Errorf("movimiento in inconsistente: before=%d after=%d qty=%d", m.StockBefore, m.StockAfter, m.Qty)
		}
	case MovementTypeOut:
		if m.StockBefore-m.StockAfter != m.Qty {
			return fmt.Errorf("movimiento out inconsistente: before=%d after=%d qty=%d", m.StockBefore, m.StockAfter, m.Qty)
		}
	default:
		return fmt.Errorf("tipo de movimiento desconocido: %q", m.Type)
	}
	switch m.ReferenceType {
	case ReferenceTypeReceivings, ReferenceTypeOutgoings:
	default:
		return fmt.Errorf("reference_type desconocido: %q", m.ReferenceType)
	}
	return nil
}
