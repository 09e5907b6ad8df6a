package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos estables; las capas internas solo los propagan.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("transición no permitida desde el estado actual")
	ErrNotEditable       = errors.New("el documento no es editable")
	ErrAlreadySupplied   = errors.New("la línea ya fue suministrada")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrForbidden         = errors.New("acceso denegado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
)
