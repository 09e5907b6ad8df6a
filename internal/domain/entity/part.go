package entity

import "time"

// Estados derivados del stock de una parte.
const (
	StockStatusOut = "out_of_stock" // stock <= 0
	StockStatusLow = "low_stock"    // 0 < stock <= LowStockThreshold
	StockStatusIn  = "in_stock"     // stock > LowStockThreshold
)

// LowStockThreshold umbral bajo el cual una parte se reporta como low_stock.
const LowStockThreshold = 10

// Part es una parte del almacén con su contador de stock. El campo Stock
// solo lo muta el Stock Ledger, siempre bajo candado de fila (FOR UPDATE).
// Nunca se borra físicamente: DeletedAt marca el soft delete y la parte
// sigue siendo referenciable desde movimientos históricos.
type Part struct {
	ID              string
	PartNumber      string
	PartName        string
	CustomerCode    string
	SupplierCode    string
	Model           string
	Variant         string
	StandardPacking int
	Stock           int
	Address         string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// StockStatus clasifica el stock actual en out_of_stock / low_stock / in_stock.
func (p *Part) StockStatus() string {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// IsDeleted indica si la parte está soft-deleted.
func (p *Part) IsDeleted() bool {
	return p.DeletedAt != nil
}
