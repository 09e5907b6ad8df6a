package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
)

// OutgoingHandler maneja las peticiones HTTP de salidas (protegido).
type OutgoingHandler struct {
	uc *inventory.OutgoingUseCase
}

// NewOutgoingHandler construye el handler.
func NewOutgoingHandler(uc *inventory.OutgoingUseCase) *OutgoingHandler {
	return &OutgoingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear salida en borrador
// @Tags         outgoings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "doc_number vacío = numeración automática OUT-DDMMYY-NNNN"
// @Success      201   {object}  dto.OutgoingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings [post]
func (h *OutgoingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOutgoing(out))
}

// GetByID godoc
// @Summary      Obtener salida por ID
// @Tags         outgoings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.OutgoingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings/{id} [get]
func (h *OutgoingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOutgoing(out))
}

// List godoc
// @Summary      Listar salidas
// @Tags         outgoings
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "draft | completed | cancelled"
// @Param        pending_confirm  query  bool    false  "Solo completadas sin GI"
// @Param        search           query  string  false  "Por doc_number"
// @Param        page             query  int     false  "Página"  default(1)
// @Param        limit            query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.OutgoingResponse]
// @Router       /api/v1/outgoings [get]
func (h *OutgoingHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	outs, total, err := h.uc.List(c.Context(), documentFilterFromQuery(c, page))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromOutgoings(outs), total, page))
}

// Update godoc
// @Summary      Actualizar salida editable
// @Tags         outgoings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la salida"
// @Param        body  body  dto.UpdateDocumentRequest  true  "Items no-nulo reemplaza todas las líneas (solo en borrador)"
// @Success      200   {object}  dto.OutgoingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings/{id} [put]
func (h *OutgoingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOutgoing(out))
}

// Complete godoc
// @Summary      Completar salida (valida suficiencia y descuenta stock)
// @Tags         outgoings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.OutgoingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings/{id}/complete [post]
func (h *OutgoingHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOutgoing(out))
}

// Cancel godoc
// @Summary      Cancelar salida
// @Tags         outgoings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.OutgoingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings/{id}/cancel [post]
func (h *OutgoingHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOutgoing(out))
}

// ConfirmGI godoc
// @Summary      Confirmar Goods Issue (irreversible)
// @Tags         outgoings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.OutgoingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings/{id}/confirm-gi [post]
func (h *OutgoingHandler) ConfirmGI(c *fiber.Ctx) error {
	out, err := h.uc.ConfirmGI(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOutgoing(out))
}

// Delete godoc
// @Summary      Borrar salida (soft delete)
// @Tags         outgoings
// @Security     Bearer
// @Param        id   path  string  true  "ID de la salida"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/outgoings/{id} [delete]
func (h *OutgoingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
