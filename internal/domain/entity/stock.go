package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxTextLength longitud máxima de name, generic_name y category.
const MaxTextLength = 200

// ValidQuantity indica si q cabe en la columna stock_quantity (INTEGER).
func ValidQuantity(q int) bool {
	return q >= math.MinInt32 && q <= math.MaxInt32
}

// Stock representa un artículo del inventario de la farmacia (tabla stocks).
// Name es la clave de negocio usada por la importación (upsert por nombre).
type Stock struct {
	ID            int64
	Name          string
	GenericName   string
	Category      string
	BuyPrice      float64
	SellPrice     float64
	StockQuantity int
	ExpiryDate    *time.Time // nil si no tiene vencimiento
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfitPerUnit devuelve sell_price - buy_price redondeado a 2 decimales.
func (s *Stock) ProfitPerUnit() decimal.Decimal {
	return decimal.NewFromFloat(s.SellPrice).Sub(decimal.NewFromFloat(s.BuyPrice)).Round(2)
}

// TotalValue devuelve sell_price * stock_quantity redondeado a 2 decimales.
func (s *Stock) TotalValue() decimal.Decimal {
	return decimal.NewFromFloat(s.SellPrice).Mul(decimal.NewFromInt(int64(s.StockQuantity))).Round(2)
}

// ProfitPotential devuelve (sell_price - buy_price) * stock_quantity sin redondear.
func (s *Stock) ProfitPotential() decimal.Decimal {
	margin := decimal.NewFromFloat(s.SellPrice).Sub(decimal.NewFromFloat(s.BuyPrice))
	return margin.Mul(decimal.NewFromInt(int64(s.StockQuantity)))
}

// IsExpired indica si el artículo venció respecto a la fecha dada (comparación por día).
func (s *Stock) IsExpired(now time.Time) bool {
	if s.ExpiryDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.ExpiryDate.Before(today)
}
