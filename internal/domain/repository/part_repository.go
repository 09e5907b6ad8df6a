package repository

import "github.com/tu-usuario/partes-api/internal/domain/entity"

// PartFilter filtros de listado de partes.
type PartFilter struct {
	Search      string // part_number, part_name, customer_code, supplier_code, model
	StockStatus string // active, inactive, in_stock, low_stock, out_of_stock
	Limit       int
	Offset      int
}

// PartRepository define el puerto de persistencia para Part (DIP).
// Las partes soft-deleted quedan fuera de todos los listados y lookups.
type PartRepository interface {
	Create(part *entity.Part) error
	GetByID(id string) (*entity.Part, error)
	Update(part *entity.Part) error
	SoftDelete(id string) error
	List(filter PartFilter) ([]*entity.Part, int, error)
	// GetForUpdate bloquea la fila de la parte (SELECT FOR UPDATE) y la
	// devuelve con el stock vigente. Solo tiene sentido dentro de una tx.
	GetForUpdate(id string) (*entity.Part, error)
	// ListForUpdate bloquea todas las partes indicadas en orden ascendente
	// de id (orden fijo anti-deadlock) y las devuelve. Error ErrNotFound si
	// alguna no existe o está soft-deleted.
	ListForUpdate(ids []string) ([]*entity.Part, error)
	// UpdateStock escribe el contador de stock. Reservado al Stock Ledger;
	// el llamador debe sostener el candado de fila de la parte.
	UpdateStock(id string, stock int) error
	HasTransactions(id string) (bool, error)
}
