package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// PartHandler maneja las peticiones HTTP de partes (protegido).
type PartHandler struct {
	uc        *inventory.PartUseCase
	movements *inventory.MovementUseCase
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *inventory.PartUseCase, movements *inventory.MovementUseCase) *PartHandler {
	return &PartHandler{uc: uc, movements: movements}
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}
	page.DefaultPage()
	return page
}

// Create godoc
// @Summary      Crear parte
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "Datos de la parte"
// @Success      201   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	part, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPart(part))
}

// GetByID godoc
// @Summary      Obtener parte por ID
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la parte"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	part, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPart(part))
}

// List godoc
// @Summary      Listar partes
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        search        query  string  false  "Por número, nombre, código o modelo"
// @Param        stock_status  query  string  false  "in_stock | low_stock | out_of_stock | active | inactive"
// @Param        page          query  int     false  "Página"  default(1)
// @Param        limit         query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.PartResponse]
// @Router       /api/v1/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	filter := repository.PartFilter{
		Search:      c.Query("search"),
		StockStatus: c.Query("stock_status"),
		Limit:       page.Limit,
		Offset:      page.Offset(),
	}
	parts, total, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromParts(parts), total, page))
}

// Update godoc
// @Summary      Actualizar parte
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la parte"
// @Param        body  body  dto.UpdatePartRequest  true  "Campos a actualizar (el stock no es editable)"
// @Success      200   {object}  dto.PartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	part, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPart(part))
}

// Delete godoc
// @Summary      Borrar parte (soft delete)
// @Tags         parts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la parte"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id} [delete]
func (h *PartHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Movements godoc
// @Summary      Historial de movimientos de una parte
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la parte"
// @Param        type   query  string  false  "in | out"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.MovementResponse]
// @Router       /api/v1/parts/{id}/movements [get]
func (h *PartHandler) Movements(c *fiber.Ctx) error {
	// verifica que la parte exista antes de listar su ledger
	if _, err := h.uc.GetByID(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	filter := repository.MovementFilter{
		PartID: c.Params("id"),
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	movements, total, err := h.movements.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromMovements(movements), total, page))
}
