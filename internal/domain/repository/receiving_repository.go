package repository

import "github.com/tu-usuario/partes-api/internal/domain/entity"

// DocumentFilter filtros comunes de listado de documentos.
type DocumentFilter struct {
	Status          string
	PendingConfirm  bool // completados con GR/GI aún sin confirmar
	DocNumberSearch string
	Limit           int
	Offset          int
}

// ReceivingRepository define el puerto de persistencia para Receiving y sus
// líneas. Los GetByID devuelven el documento con Items cargados de forma
// explícita: el motor de completado necesita el conjunto completo y vigente.
type ReceivingRepository interface {
	Create(receiving *entity.Receiving) error
	GetByID(id string) (*entity.Receiving, error)
	Update(receiving *entity.Receiving) error
	// ReplaceItems reemplaza la colección completa de líneas (semántica de
	// update del documento en borrador).
	ReplaceItems(receivingID string, items []entity.ReceivingItem) error
	UpdateStatus(id, status string) error
	SetGR(id string) error
	SoftDelete(id string) error
	List(filter DocumentFilter) ([]*entity.Receiving, int, error)
	// LastDocNumberForDay devuelve el doc_number más alto que matchea el
	// patrón del día ("RCV-DDMMYY-%"), o "" si no hay ninguno.
	LastDocNumberForDay(pattern string) (string, error)
}
