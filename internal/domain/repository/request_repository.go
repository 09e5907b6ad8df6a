package repository

import "github.com/tu-usuario/partes-api/internal/domain/entity"

// RequestRepository define el puerto de persistencia para Request y sus líneas.
type RequestRepository interface {
	Create(request *entity.Request) error
	GetByID(id string) (*entity.Request, error)
	Update(request *entity.Request) error
	ReplaceItems(requestID string, items []entity.RequestItem) error
	UpdateStatus(id, status string) error
	SoftDelete(id string) error
	List(filter DocumentFilter) ([]*entity.Request, int, error)
	GetItem(itemID string) (*entity.RequestItem, error)
	// MarkItemSupplied marca la línea como suministrada y fija la cantidad
	// efectivamente entregada (transición única false -> true).
	MarkItemSupplied(itemID string, qty int) error
	LastDocNumberForDay(pattern string) (string, error)
}
