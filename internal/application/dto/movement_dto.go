package dto

import (
	"time"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// MovementResponse entrada del ledger en respuestas.
type MovementResponse struct {
	ID            string    `json:"id"`
	PartID        string    `json:"part_id"`
	StockBefore   int       `json:"stock_before"`
	Type          string    `json:"type"`
	Qty           int       `json:"qty"`
	StockAfter    int       `json:"stock_after"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementSyncItem fila simplificada para la sincronización a hoja de
// cálculo (consumida en orden ascendente por fecha).
type MovementSyncItem struct {
	PartID     string    `json:"part_id"`
	Type       string    `json:"type"`
	Qty        int       `json:"qty"`
	StockAfter int       `json:"stock_after"`
	Reference  string    `json:"reference"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromMovement mapea la entidad a su respuesta.
func FromMovement(m *entity.PartMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		PartID:        m.PartID,
		StockBefore:   m.StockBefore,
		Type:          m.Type,
		Qty:           m.Qty,
		StockAfter:    m.StockAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}
}

// FromMovements mapea un listado.
func FromMovements(list []*entity.PartMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}

// FromMovementSync mapea al formato de sincronización.
func FromMovementSync(list []*entity.PartMovement) []MovementSyncItem {
	out := make([]MovementSyncItem, 0, len(list))
	for _, m := range list {
		out = append(out, MovementSyncItem{
			PartID:     m.PartID,
			Type:       m.Type,
			Qty:        m.Qty,
			StockAfter: m.StockAfter,
			Reference:  m.ReferenceType + ":" + m.ReferenceID,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}
