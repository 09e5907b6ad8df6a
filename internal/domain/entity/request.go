package entity

import "time"

// Request es una solicitud interna de partes. Se satisface línea a línea con
// la operación de suministro, que crea (o extiende) un Outgoing automático.
type Request struct {
	ID            string
	RequestNumber string
	RequestedBy   string
	RequestedAt   time.Time
	Destination   string
	Status        string
	Notes         string
	Items         []RequestItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// RequestItem línea de una solicitud. IsSupplied pasa de false a true una
// sola vez; en ese momento Qty puede sobreescribirse con la cantidad
// realmente entregada.
type RequestItem struct {
	ID         string
	RequestID  string
	PartID     string
	Qty        int
	IsUrgent   bool
	IsSupplied bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
