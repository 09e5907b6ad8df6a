package inventory

import (
	"context"

	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Parts      repository.PartRepository
	Receivings repository.ReceivingRepository
	Outgoings  repository.OutgoingRepository
	Requests   repository.RequestRepository
	Movements  repository.MovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn devuelve nil, Rollback si no.
// Garantiza atomicidad para el motor de movimientos: o se aplica todo el
// lote de un completado, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// Notifier canal de notificaciones fire-and-forget (SSE). Best-effort y
// at-most-once: publicar nunca bloquea ni hace fallar la transacción a la
// que acompaña; se invoca después del commit.
type Notifier interface {
	Publish(event string, payload any)
}
