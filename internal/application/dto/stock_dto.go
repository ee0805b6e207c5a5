package dto

// CreateStockRequest entrada para crear un artículo de inventario.
// expiry_date acepta YYYY-MM-DD o DD/MM/YYYY; vacío = sin vencimiento.
type CreateStockRequest struct {
	Name          string   `json:"name" validate:"required"`
	GenericName   string   `json:"generic_name"`
	Category      string   `json:"category"`
	BuyPrice      *float64 `json:"buy_price" validate:"required"`
	SellPrice     *float64 `json:"sell_price" validate:"required"`
	StockQuantity *int     `json:"stock_quantity" validate:"required"`
	ExpiryDate    string   `json:"expiry_date"`
}

// UpdateStockRequest entrada para actualizar un artículo (campos nil no cambian).
// ExpiryDate "" elimina la fecha de vencimiento.
type UpdateStockRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`
	GenericName   *string  `json:"generic_name"`
	Category      *string  `json:"category"`
	BuyPrice      *float64 `json:"buy_price"`
	SellPrice     *float64 `json:"sell_price"`
	StockQuantity *int     `json:"stock_quantity"`
	ExpiryDate    *string  `json:"expiry_date"`
}

// QuantityUpdateRequest elemento del cuerpo de la actualización masiva de cantidades.
type QuantityUpdateRequest struct {
	ID       int64 `json:"id" validate:"required"`
	Quantity *int  `json:"quantity" validate:"required"`
}

// StockResponse salida de un artículo, con valores derivados redondeados a 2 decimales.
type StockResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	GenericName   string  `json:"generic_name"`
	Category      string  `json:"category"`
	BuyPrice      float64 `json:"buy_price"`
	SellPrice     float64 `json:"sell_price"`
	StockQuantity int     `json:"stock_quantity"`
	ExpiryDate    *string `json:"expiry_date"`
	ProfitPerUnit float64 `json:"profit_per_unit"`
	TotalValue    float64 `json:"total_value"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// StockSummary totales del listado filtrado.
type StockSummary struct {
	TotalItems           int     `json:"total_items"`
	TotalValue           float64 `json:"total_value"`
	TotalProfitPotential float64 `json:"total_profit_potential"`
}

// StockListResponse listado con categorías disponibles y resumen.
type StockListResponse struct {
	Items      []StockResponse `json:"items"`
	Categories []string        `json:"categories"`
	Summary    StockSummary    `json:"summary"`
}

// ClearStockResponse resultado de vaciar el inventario.
type ClearStockResponse struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

// BulkQuantityResponse resultado de la actualización masiva.
type BulkQuantityResponse struct {
	Requested int   `json:"requested"`
	Updated   int64 `json:"updated"`
}
