package dto

import (
	"time"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// RequestItemInput línea de solicitud en requests de creación/actualización.
type RequestItemInput struct {
	PartID   string `json:"part_id"`
	Qty      int    `json:"qty"`
	IsUrgent bool   `json:"is_urgent"`
}

// CreateRequestRequest alta de una solicitud en borrador.
type CreateRequestRequest struct {
	RequestNumber string             `json:"request_number"`
	Destination   string             `json:"destination"`
	Notes         string             `json:"notes"`
	RequestedAt   *time.Time         `json:"requested_at"`
	Items         []RequestItemInput `json:"items"`
}

// UpdateRequestRequest actualización de una solicitud en borrador.
type UpdateRequestRequest struct {
	RequestNumber *string            `json:"request_number"`
	Destination   *string            `json:"destination"`
	Notes         *string            `json:"notes"`
	Items         []RequestItemInput `json:"items"`
}

// RequestItemResponse línea en respuestas.
type RequestItemResponse struct {
	ID         string `json:"id"`
	PartID     string `json:"part_id"`
	Qty        int    `json:"qty"`
	IsUrgent   bool   `json:"is_urgent"`
	IsSupplied bool   `json:"is_supplied"`
}

// RequestResponse representación externa de una solicitud.
type RequestResponse struct {
	ID            string                `json:"id"`
	RequestNumber string                `json:"request_number"`
	RequestedBy   string                `json:"requested_by"`
	RequestedAt   time.Time             `json:"requested_at"`
	Destination   string                `json:"destination,omitempty"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	Items         []RequestItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// FromRequest mapea la entidad con sus líneas anidadas.
func FromRequest(r *entity.Request) RequestResponse {
	items := make([]RequestItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, RequestItemResponse{
			ID:         it.ID,
			PartID:     it.PartID,
			Qty:        it.Qty,
			IsUrgent:   it.IsUrgent,
			IsSupplied: it.IsSupplied,
		})
	}
	return RequestResponse{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		RequestedBy:   r.RequestedBy,
		RequestedAt:   r.RequestedAt,
		Destination:   r.Destination,
		Status:        r.Status,
		Notes:         r.Notes,
		Items:         items,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromRequests mapea un listado.
func FromRequests(list []*entity.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromRequest(r))
	}
	return out
}
