package dto

import (
	"time"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// ItemInput línea de documento en requests de creación/actualización.
type ItemInput struct {
	PartID string `json:"part_id"`
	Qty    int    `json:"qty"`
}

// CreateDocumentRequest alta de un Receiving u Outgoing en borrador.
// DocNumber vacío delega la numeración al generador diario.
type CreateDocumentRequest struct {
	DocNumber string      `json:"doc_number"`
	Notes     string      `json:"notes"`
	IssuedAt  *time.Time  `json:"issued_at"`
	Items     []ItemInput `json:"items"`
}

// UpdateDocumentRequest actualización de un documento editable. Items no-nil
// reemplaza la colección de líneas completa.
type UpdateDocumentRequest struct {
	DocNumber *string     `json:"doc_number"`
	Notes     *string     `json:"notes"`
	Items     []ItemInput `json:"items"`
}

// DocumentItemResponse línea en respuestas.
type DocumentItemResponse struct {
	ID     string `json:"id"`
	PartID string `json:"part_id"`
	Qty    int    `json:"qty"`
}

// ReceivingResponse representación externa de un Receiving.
type ReceivingResponse struct {
	ID         string                 `json:"id"`
	DocNumber  string                 `json:"doc_number"`
	ReceivedBy string                 `json:"received_by"`
	ReceivedAt time.Time              `json:"received_at"`
	Status     string                 `json:"status"`
	Notes      string                 `json:"notes,omitempty"`
	IsGR       bool                   `json:"is_gr"`
	IsEditable bool                   `json:"is_editable"`
	TotalItems int                    `json:"total_items"`
	Items      []DocumentItemResponse `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// OutgoingResponse representación externa de un Outgoing.
type OutgoingResponse struct {
	ID         string                 `json:"id"`
	DocNumber  string                 `json:"doc_number"`
	IssuedBy   string                 `json:"issued_by"`
	IssuedAt   time.Time              `json:"issued_at"`
	Status     string                 `json:"status"`
	Notes      string                 `json:"notes,omitempty"`
	IsGI       bool                   `json:"is_gi"`
	RequestID  string                 `json:"request_id,omitempty"`
	IsEditable bool                   `json:"is_editable"`
	TotalItems int                    `json:"total_items"`
	Items      []DocumentItemResponse `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// FromReceiving mapea la entidad con sus líneas anidadas.
func FromReceiving(r *entity.Receiving) ReceivingResponse {
	items := make([]DocumentItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, DocumentItemResponse{ID: it.ID, PartID: it.PartID, Qty: it.Qty})
	}
	return ReceivingResponse{
		ID:         r.ID,
		DocNumber:  r.DocNumber,
		ReceivedBy: r.ReceivedBy,
		ReceivedAt: r.ReceivedAt,
		Status:     r.Status,
		Notes:      r.Notes,
		IsGR:       r.IsGR,
		IsEditable: r.IsEditable(),
		TotalItems: r.TotalItems(),
		Items:      items,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromReceivings mapea un listado.
func FromReceivings(list []*entity.Receiving) []ReceivingResponse {
	out := make([]ReceivingResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromReceiving(r))
	}
	return out
}

// FromOutgoing mapea la entidad con sus líneas anidadas.
func FromOutgoing(o *entity.Outgoing) OutgoingResponse {
	items := make([]DocumentItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, DocumentItemResponse{ID: it.ID, PartID: it.PartID, Qty: it.Qty})
	}
	return OutgoingResponse{
		ID:         o.ID,
		DocNumber:  o.DocNumber,
		IssuedBy:   o.IssuedBy,
		IssuedAt:   o.IssuedAt,
		Status:     o.Status,
		Notes:      o.Notes,
		IsGI:       o.IsGI,
		RequestID:  o.RequestID,
		IsEditable: o.IsEditable(),
		TotalItems: o.TotalItems(),
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// FromOutgoings mapea un listado.
func FromOutgoings(list []*entity.Outgoing) []OutgoingResponse {
	out := make([]OutgoingResponse, 0, len(list))
	for _, o := range list {
		out = append(out, FromOutgoing(o))
	}
	return out
}
