package entity

import "time"

// Outgoing es un documento de salida de mercancía. Al completarse descuenta
// el stock de cada parte vía el Stock Ledger, validando suficiencia de todas
// las líneas antes de aplicar ninguna.
type Outgoing struct {
	ID        string
	DocNumber string
	IssuedBy  string
	IssuedAt  time.Time
	Status    string
	Notes     string
	IsGI      bool // confirmación Goods Issue, monótona
	// RequestID correlaciona el Outgoing generado por el coordinador de
	// suministro con su solicitud de origen. Vacío para salidas manuales.
	RequestID string
	Items     []OutgoingItem
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// OutgoingItem línea de un Outgoing (parte + cantidad positiva).
type OutgoingItem struct {
	ID         string
	OutgoingID string
	PartID     string
	Qty        int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsEditable indica si el documento admite modificaciones:
// no confirmado como GI y no cancelado.
func (o *Outgoing) IsEditable() bool {
	return !o.IsGI && o.Status != StatusCancelled
}

// CanConfirmGI indica si puede confirmarse como Goods Issue:
// completado y aún sin confirmar.
func (o *Outgoing) CanConfirmGI() bool {
	return o.Status == StatusCompleted && !o.IsGI
}

// TotalItems suma las cantidades de todas las líneas.
func (o *Outgoing) TotalItems() int {
	total := 0
	for _, it := range o.Items {
		total += it.Qty
	}
	return total
}
