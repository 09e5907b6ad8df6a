package repository

import (
	"time"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// MovementFilter filtros de consulta del ledger de movimientos.
type MovementFilter struct {
	PartID        string
	Type          string // in | out
	ReferenceType string // Receivings | Outgoings
	From          *time.Time
	To            *time.Time
	// Ascending invierte el orden por fecha (la sincronización a hoja de
	// cálculo consume el ledger de más antiguo a más reciente).
	Ascending bool
	Limit     int
	Offset    int
}

// MovementRepository define el puerto del ledger append-only. No existe
// Update ni Delete: los movimientos son inmutables tras la inserción.
type MovementRepository interface {
	Create(movement *entity.PartMovement) error
	List(filter MovementFilter) ([]*entity.PartMovement, int, error)
	ListByReference(referenceType, referenceID string) ([]*entity.PartMovement, error)
}
