package dto

// PartsStats agregados de partes.
type PartsStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// DocumentStats agregados de documentos de un tipo.
type DocumentStats struct {
	Total          int `json:"total"`
	Draft          int `json:"draft"`
	Completed      int `json:"completed"`
	PendingConfirm int `json:"pending_confirm"`
}

// RequestsStats agregados de solicitudes.
type RequestsStats struct {
	Total        int `json:"total"`
	Draft        int `json:"draft"`
	Completed    int `json:"completed"`
	PendingItems int `json:"pending_items"`
}

// DashboardStats respuesta del dashboard.
type DashboardStats struct {
	Parts      PartsStats    `json:"parts"`
	Receivings DocumentStats `json:"receivings"`
	Outgoings  DocumentStats `json:"outgoings"`
	Requests   RequestsStats `json:"requests"`
}
