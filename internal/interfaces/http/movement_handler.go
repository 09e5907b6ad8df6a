package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// MovementHandler expone el ledger de movimientos: consulta, sincronización
// y exportación a XLSX (protegido). El ledger es de solo lectura por HTTP.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

func movementFilterFromQuery(c *fiber.Ctx, page dto.PageRequest) (repository.MovementFilter, error) {
	filter := repository.MovementFilter{
		PartID:        c.Query("part_id"),
		Type:          c.Query("type"),
		ReferenceType: c.Query("reference_type"),
		Limit:         page.Limit,
		Offset:        page.Offset(),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, fmt.Errorf("from inválido: %s", from)
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, fmt.Errorf("to inválido: %s", to)
		}
		filter.To = &t
	}
	return filter, nil
}

// List godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        part_id         query  string  false  "Por parte"
// @Param        type            query  string  false  "in | out"
// @Param        reference_type  query  string  false  "Receivings | Outgoings"
// @Param        from            query  string  false  "Desde (RFC3339)"
// @Param        to              query  string  false  "Hasta (RFC3339)"
// @Param        page            query  int     false  "Página"  default(1)
// @Param        limit           query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.MovementResponse]
// @Router       /api/v1/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	filter, err := movementFilterFromQuery(c, page)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movements, total, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromMovements(movements), total, page))
}

// Sync godoc
// @Summary      Sincronización del ledger para hoja de cálculo
// @Description  Devuelve el ledger en orden ascendente por fecha, en el
// @Description  formato simplificado que consume la sincronización externa.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (RFC3339)"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.MovementSyncItem]
// @Router       /api/v1/movements/sync [get]
func (h *MovementHandler) Sync(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	filter, err := movementFilterFromQuery(c, page)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	filter.Ascending = true
	movements, total, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromMovementSync(movements), total, page))
}

// Export godoc
// @Summary      Exportar movimientos a XLSX
// @Tags         movements
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        part_id  query  string  false  "Por parte"
// @Param        type     query  string  false  "in | out"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Success      200  {file}  binary
// @Router       /api/v1/movements/export [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c, dto.PageRequest{})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	// exporte completo del rango filtrado, sin paginar
	filter.Ascending = true
	filter.Limit = 100000
	filter.Offset = 0

	buf, err := h.uc.ExportXLSX(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("movements_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
