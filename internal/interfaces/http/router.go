package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/analytics"
	"github.com/tu-usuario/partes-api/internal/application/auth"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/infrastructure/sse"
)

// Capacidades requeridas por los endpoints de escritura. La lectura solo
// requiere token válido.
const (
	PermPartsWrite      = "parts.write"
	PermReceivingsWrite = "receivings.write"
	PermOutgoingsWrite  = "outgoings.write"
	PermRequestsWrite   = "requests.write"
	PermRequestsSupply  = "requests.supply"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PartUC      *inventory.PartUseCase
	ReceivingUC *inventory.ReceivingUseCase
	OutgoingUC  *inventory.OutgoingUseCase
	RequestUC   *inventory.RequestUseCase
	SupplyUC    *inventory.SupplyUseCase
	MovementUC  *inventory.MovementUseCase
	DashboardUC *analytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	Hub         *sse.Hub
	UserCache   *UserCache
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Parts
	parts := protected.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC, deps.MovementUC)
	parts.Get("/", partHandler.List)
	parts.Post("/", RequirePermission(PermPartsWrite, deps.UserCache), partHandler.Create)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", RequirePermission(PermPartsWrite, deps.UserCache), partHandler.Update)
	parts.Delete("/:id", RequirePermission(PermPartsWrite, deps.UserCache), partHandler.Delete)
	parts.Get("/:id/movements", partHandler.Movements)

	// Receivings
	receivings := protected.Group("/receivings")
	receivingHandler := NewReceivingHandler(deps.ReceivingUC)
	receivings.Get("/", receivingHandler.List)
	receivings.Post("/", RequirePermission(PermReceivingsWrite, deps.UserCache), receivingHandler.Create)
	receivings.Get("/:id", receivingHandler.GetByID)
	receivings.Put("/:id", RequirePermission(PermReceivingsWrite, deps.UserCache), receivingHandler.Update)
	receivings.Delete("/:id", RequirePermission(PermReceivingsWrite, deps.UserCache), receivingHandler.Delete)
	receivings.Post("/:id/complete", RequirePermission(PermReceivingsWrite, deps.UserCache), receivingHandler.Complete)
	receivings.Post("/:id/cancel", RequirePermission(PermReceivingsWrite, deps.UserCache), receivingHandler.Cancel)
	receivings.Post("/:id/confirm-gr", RequirePermission(PermReceivingsWrite, deps.UserCache), receivingHandler.ConfirmGR)

	// Outgoings
	outgoings := protected.Group("/outgoings")
	outgoingHandler := NewOutgoingHandler(deps.OutgoingUC)
	outgoings.Get("/", outgoingHandler.List)
	outgoings.Post("/", RequirePermission(PermOutgoingsWrite, deps.UserCache), outgoingHandler.Create)
	outgoings.Get("/:id", outgoingHandler.GetByID)
	outgoings.Put("/:id", RequirePermission(PermOutgoingsWrite, deps.UserCache), outgoingHandler.Update)
	outgoings.Delete("/:id", RequirePermission(PermOutgoingsWrite, deps.UserCache), outgoingHandler.Delete)
	outgoings.Post("/:id/complete", RequirePermission(PermOutgoingsWrite, deps.UserCache), outgoingHandler.Complete)
	outgoings.Post("/:id/cancel", RequirePermission(PermOutgoingsWrite, deps.UserCache), outgoingHandler.Cancel)
	outgoings.Post("/:id/confirm-gi", RequirePermission(PermOutgoingsWrite, deps.UserCache), outgoingHandler.ConfirmGI)

	// Requests y suministro
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC, deps.SupplyUC)
	requests.Get("/", requestHandler.List)
	requests.Post("/", RequirePermission(PermRequestsWrite, deps.UserCache), requestHandler.Create)
	requests.Post("/items/:item_id/supply", RequirePermission(PermRequestsSupply, deps.UserCache), requestHandler.SupplyItem)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Put("/:id", RequirePermission(PermRequestsWrite, deps.UserCache), requestHandler.Update)
	requests.Delete("/:id", RequirePermission(PermRequestsWrite, deps.UserCache), requestHandler.Delete)
	requests.Post("/:id/complete", RequirePermission(PermRequestsWrite, deps.UserCache), requestHandler.Complete)
	requests.Post("/:id/cancel", RequirePermission(PermRequestsWrite, deps.UserCache), requestHandler.Cancel)

	// Ledger de movimientos (solo lectura)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/sync", movementHandler.Sync)
	movements.Get("/export", movementHandler.Export)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", dashboardHandler.Stats)

	// Eventos SSE
	eventsHandler := NewEventsHandler(deps.Hub)
	protected.Get("/events", eventsHandler.Stream)
}
