package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
)

// RequestHandler maneja las peticiones HTTP de solicitudes (protegido),
// incluido el suministro línea a línea.
type RequestHandler struct {
	uc     *inventory.RequestUseCase
	supply *inventory.SupplyUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *inventory.RequestUseCase, supply *inventory.SupplyUseCase) *RequestHandler {
	return &RequestHandler{uc: uc, supply: supply}
}

// Create godoc
// @Summary      Crear solicitud en borrador
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "request_number vacío = numeración automática REQ-DDMMYY-NNNN"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRequest(req))
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "draft | completed | cancelled"
// @Param        pending_confirm  query  bool    false  "Solo completadas con líneas sin suministrar"
// @Param        search           query  string  false  "Por request_number"
// @Param        page             query  int     false  "Página"  default(1)
// @Param        limit            query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.PaginatedResponse[dto.RequestResponse]
// @Router       /api/v1/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	reqs, total, err := h.uc.List(c.Context(), documentFilterFromQuery(c, page))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginated(dto.FromRequests(reqs), total, page))
}

// Update godoc
// @Summary      Actualizar solicitud en borrador
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.UpdateRequestRequest  true  "Items no-nulo reemplaza todas las líneas"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id} [put]
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// Complete godoc
// @Summary      Completar solicitud (la publica para suministro)
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id}/complete [post]
func (h *RequestHandler) Complete(c *fiber.Ctx) error {
	req, err := h.uc.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// Cancel godoc
// @Summary      Cancelar solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	req, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// SupplyItem godoc
// @Summary      Suministrar una línea de solicitud
// @Description  Descuenta stock, añade la línea al Outgoing en borrador
// @Description  correlacionado a la solicitud (creándolo si no existe) y
// @Description  marca la línea como suministrada. Transición única.
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        item_id  path   string  true   "ID de la línea"
// @Param        qty      query  int     false  "Cantidad efectiva (por defecto la solicitada)"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/items/{item_id}/supply [post]
func (h *RequestHandler) SupplyItem(c *fiber.Ctx) error {
	var qtyOverride *int
	if qty := c.QueryInt("qty", -1); qty >= 0 {
		qtyOverride = &qty
	}
	req, err := h.supply.Supply(c.Context(), c.Params("item_id"), GetUserID(c), qtyOverride)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// Delete godoc
// @Summary      Borrar solicitud (soft delete)
// @Tags         requests
// @Security     Bearer
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
