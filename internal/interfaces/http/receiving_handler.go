package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// ReceivingHandler maneja las peticiones HTTP de recepciones (protegido).
type ReceivingHandler struct {
	uc *inventory.ReceivingUseCase
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(uc *inventory.ReceivingUseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc}
}

func documentFilterFromQuery(c *fiber.Ctx, page dto.PageRequest) repository.DocumentFilter {
	return repository.DocumentFilter{
		Status:          c.Query("status"),
		PendingConfirm:  c.QueryBool("pending_confirm", false),
		DocNumberSearch: c.Query("search"),
		Limit:           page.Limit,
		Offset:          page.Offset(),
	}
}

// Create godoc
// @Summary      Crear recepción en borrador
// @Tags         receivings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "doc_number vacío = numeración automática RCV-DDMMYY-NNNN"
// @Success      201   {object}  dto.ReceivingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/receivings [post]
func (h *ReceivingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReceiving(rec))
}

// GetByID godoc
// @Summary      Obtener recepción por ID
// @Tags         receivings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceivingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/receivings/{id} [get]
func (h *ReceivingHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceiving(rec))
}

// List godoc
// @Summary      Listar recepciones
// @Tags         receivings
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "draft | completed | cancelled"
// @Param        pending_confirm  query  bool    false  "Solo completadas sin GR"
// @Param        search           query  string  false  "Por doc_number"
// @Param        page             query  int     false  "Página"  default(1)
// @Param        limit            query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.ReceivingResponse]
// @Router       /api/v1/receivings [get]
func (h *ReceivingHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	recs, total, err := h.uc.List(c.Context(), documentFilterFromQuery(c, page))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromReceivings(recs), total, page))
}

// Update godoc
// @Summary      Actualizar recepción editable
// @Tags         receivings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.UpdateDocumentRequest  true  "Items no-nulo reemplaza todas las líneas (solo en borrador)"
// @Success      200   {object}  dto.ReceivingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/receivings/{id} [put]
func (h *ReceivingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceiving(rec))
}

// Complete godoc
// @Summary      Completar recepción (aplica entradas de stock)
// @Tags         receivings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceivingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/receivings/{id}/complete [post]
func (h *ReceivingHandler) Complete(c *fiber.Ctx) error {
	rec, err := h.uc.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceiving(rec))
}

// Cancel godoc
// @Summary      Cancelar recepción
// @Tags         receivings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceivingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/receivings/{id}/cancel [post]
func (h *ReceivingHandler) Cancel(c *fiber.Ctx) error {
	rec, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceiving(rec))
}

// ConfirmGR godoc
// @Summary      Confirmar Goods Receipt (irreversible)
// @Tags         receivings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceivingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/receivings/{id}/confirm-gr [post]
func (h *ReceivingHandler) ConfirmGR(c *fiber.Ctx) error {
	rec, err := h.uc.ConfirmGR(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReceiving(rec))
}

// Delete godoc
// @Summary      Borrar recepción (soft delete)
// @Tags         receivings
// @Security     Bearer
// @Param        id   path  string  true  "ID de la recepción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/receivings/{id} [delete]
func (h *ReceivingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
