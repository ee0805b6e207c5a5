package inventory

// Columnas reconocidas por la importación.
const (
	ColumnName          = "name"
	ColumnGenericName   = "generic_name"
	ColumnCategory      = "category"
	ColumnBuyPrice      = "buy_price"
	ColumnSellPrice     = "sell_price"
	ColumnStockQuantity = "stock_quantity"
	ColumnExpiryDate    = "expiry_date"
)

// HeaderRowOffset desplazamiento entre el índice 0 de los datos y la fila visible en la hoja
// (fila 1 = encabezado).
const HeaderRowOffset = 2

// RequiredColumns columnas sin las cuales no se procesa ninguna fila.
var RequiredColumns = []string{ColumnName, ColumnBuyPrice, ColumnSellPrice, ColumnStockQuantity}

// OptionalColumns columnas opcionales.
var OptionalColumns = []string{ColumnGenericName, ColumnCategory, ColumnExpiryDate}

// Row una fila de datos: nombre de columna → valor de celda (string, float64, int, time.Time o nil).
type Row map[string]any

// Dataset hoja de cálculo ya leída en memoria.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// HasColumn indica si el encabezado trae la columna.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns devuelve, en orden, las columnas de want que no están en el encabezado.
func (d Dataset) MissingColumns(want []string) []string {
	var missing []string
	for _, c := range want {
		if !d.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
