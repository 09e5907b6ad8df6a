package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/analytics"
)

// DashboardHandler expone los agregados del dashboard (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats godoc
// @Summary      Estadísticas del dashboard
// @Description  Contadores de partes, documentos y solicitudes. Cacheado
// @Description  con TTL corto: puede llevar unos segundos de retraso.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStats
// @Router       /api/v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
