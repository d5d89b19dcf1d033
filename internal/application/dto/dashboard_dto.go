package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalClientes  int              `json:"totalClientes"`
	TotalProductos int              `json:"totalProductos"`
	Facturas       InvoiceCountsDTO `json:"facturas"`
	VentasHoy      Money            `json:"ventasHoy"` // total de facturas no anuladas de hoy
	VentasMes      Money            `json:"ventasMes"` // total de facturas no anuladas del mes
	PorCobrar      Money            `json:"porCobrar"` // total de facturas emitidas sin pagar
	TopProductos   []TopProductDTO  `json:"topProductos"`
	Periodo        string           `json:"periodo"` // ej: "Octubre 2026"
}

// InvoiceCountsDTO cantidad de facturas por estado.
type InvoiceCountsDTO struct {
	Emitidas int `json:"emitidas"`
	Pagadas  int `json:"pagadas"`
	Anuladas int `json:"anuladas"`
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductoID string `json:"productoId"`
	Codigo     string `json:"codigo"`
	Nombre     string `json:"nombre"`
	Cantidad   int    `json:"cantidad"`
	Ingresos   Money  `json:"ingresos"`
}

// ReplenishmentSuggestionDTO producto a reponer, ordenado por prioridad.
type ReplenishmentSuggestionDTO struct {
	ProductoID       string `json:"productoId"`
	Codigo           string `json:"codigo"`
	Nombre           string `json:"nombre"`
	StockActual      int    `json:"stockActual"`
	Vendidos30Dias   int    `json:"vendidos30Dias"`
	StockIdeal       int    `json:"stockIdeal"`
	CantidadSugerida int    `json:"cantidadSugerida"`
	Prioridad        int    `json:"prioridad"` // 1 = más urgente
}
