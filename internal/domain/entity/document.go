package entity

// Estados del ciclo de vida de documentos y solicitudes.
// draft --complete--> completed --confirm--> completed (GR/GI)
// draft | completed --cancel--> cancelled. No hay salida desde cancelled.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)
