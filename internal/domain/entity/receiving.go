package entity

import "time"

// Receiving es un documento de recepción de mercancía (entrada). Al
// completarse incrementa el stock de cada parte vía el Stock Ledger.
type Receiving struct {
	ID         string
	DocNumber  string
	ReceivedBy string
	ReceivedAt time.Time
	Status     string
	Notes      string
	IsGR       bool // confirmación Goods Receipt, monótona (nunca se desmarca)
	Items      []ReceivingItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// ReceivingItem línea de un Receiving (parte + cantidad positiva).
type ReceivingItem struct {
	ID          string
	ReceivingID string
	PartID      string
	Qty         int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEditable indica si el documento admite modificaciones:
// no confirmado como GR y no cancelado.
func (r *Receiving) IsEditable() bool {
	return !r.IsGR && r.Status != StatusCancelled
}

// CanConfirmGR indica si puede confirmarse como Goods Receipt:
// completado y aún sin confirmar.
func (r *Receiving) CanConfirmGR() bool {
	return r.Status == StatusCompleted && !r.IsGR
}

// TotalItems suma las cantidades de todas las líneas.
func (r *Receiving) TotalItems() int {
	total := 0
	for _, it := range r.Items {
		total += it.Qty
	}
	return total
}
