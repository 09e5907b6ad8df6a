package repository

import "github.com/tu-usuario/partes-api/internal/domain/entity"

// OutgoingRepository define el puerto de persistencia para Outgoing y sus
// líneas. Mismo contrato de carga eager que ReceivingRepository.
type OutgoingRepository interface {
	Create(outgoing *entity.Outgoing) error
	GetByID(id string) (*entity.Outgoing, error)
	Update(outgoing *entity.Outgoing) error
	ReplaceItems(outgoingID string, items []entity.OutgoingItem) error
	AddItem(item *entity.OutgoingItem) error
	UpdateStatus(id, status string) error
	SetGI(id string) error
	SoftDelete(id string) error
	List(filter DocumentFilter) ([]*entity.Outgoing, int, error)
	// FindDraftByRequestID localiza el Outgoing en borrador correlacionado a
	// una solicitud (coordinador de suministro). Nil si no existe.
	FindDraftByRequestID(requestID string) (*entity.Outgoing, error)
	// LastDocNumberForDay devuelve el doc_number más alto que matchea el
	// patrón del día ("OUT-DDMMYY-%"), o "" si no hay ninguno.
	LastDocNumberForDay(pattern string) (string, error)
}
