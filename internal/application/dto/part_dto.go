package dto

import (
	"time"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// CreatePartRequest alta de una parte.
type CreatePartRequest struct {
	PartNumber      string `json:"part_number"`
	PartName        string `json:"part_name"`
	CustomerCode    string `json:"customer_code"`
	SupplierCode    string `json:"supplier_code"`
	Model           string `json:"model"`
	Variant         string `json:"variant"`
	StandardPacking int    `json:"standard_packing"`
	Stock           int    `json:"stock"`
	Address         string `json:"address"`
	IsActive        *bool  `json:"is_active"`
}

// UpdatePartRequest actualización parcial de una parte. El stock NO se toca
// por aquí: solo lo muta el Stock Ledger.
type UpdatePartRequest struct {
	PartNumber      *string `json:"part_number"`
	PartName        *string `json:"part_name"`
	CustomerCode    *string `json:"customer_code"`
	SupplierCode    *string `json:"supplier_code"`
	Model           *string `json:"model"`
	Variant         *string `json:"variant"`
	StandardPacking *int    `json:"standard_packing"`
	Address         *string `json:"address"`
	IsActive        *bool   `json:"is_active"`
}

// PartResponse representación externa de una parte.
type PartResponse struct {
	ID              string    `json:"id"`
	PartNumber      string    `json:"part_number"`
	PartName        string    `json:"part_name"`
	CustomerCode    string    `json:"customer_code,omitempty"`
	SupplierCode    string    `json:"supplier_code,omitempty"`
	Model           string    `json:"model,omitempty"`
	Variant         string    `json:"variant,omitempty"`
	StandardPacking int       `json:"standard_packing"`
	Stock           int       `json:"stock"`
	StockStatus     string    `json:"stock_status"`
	Address         string    `json:"address,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromPart mapea la entidad a su respuesta.
func FromPart(p *entity.Part) PartResponse {
	return PartResponse{
		ID:              p.ID,
		PartNumber:      p.PartNumber,
		PartName:        p.PartName,
		CustomerCode:    p.CustomerCode,
		SupplierCode:    p.SupplierCode,
		Model:           p.Model,
		Variant:         p.Variant,
		StandardPacking: p.StandardPacking,
		Stock:           p.Stock,
		StockStatus:     p.StockStatus(),
		Address:         p.Address,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// FromParts mapea un listado.
func FromParts(parts []*entity.Part) []PartResponse {
	out := make([]PartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, FromPart(p))
	}
	return out
}
