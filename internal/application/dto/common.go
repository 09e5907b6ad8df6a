package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto y acota el tamaño de página.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset convierte página+límite en offset SQL.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginatedResponse envoltorio de listados.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPaginated arma la respuesta de página. Items nunca viaja como null.
func NewPaginated[T any](items []T, total int, page PageRequest) PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PaginatedResponse[T]{Items: items, Total: total, Page: page.Page, Limit: page.Limit}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
