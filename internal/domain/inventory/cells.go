package inventory

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Ellipsis marcador que se agrega al recortar textos largos.
const Ellipsis = "..."

var (
	errEmptyCell   = errors.New("valor vacío")
	errNotIntegral = errors.New("no es un entero")
	errOutOfRange  = errors.New("fuera de rango")
)

// Truncate recorta s a max caracteres (runas). Si recorta, los últimos 3 caracteres son "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= len(Ellipsis) {
		return string(r[:max])
	}
	return string(r[:max-len(Ellipsis)]) + Ellipsis
}

// CellString convierte el valor de una celda a texto. nil devuelve "".
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// ParseFloatCell interpreta una celda como número de punto flotante.
func ParseFloatCell(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, errEmptyCell
	case float64:
		f = x
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		s := CellString(x)
		if s == "" {
			return 0, errEmptyCell
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q no es un número", s)
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v no es un número válido", f)
	}
	return f, nil
}

// ParseIntCell interpreta una celda como entero de 32 bits (columna INTEGER).
// Acepta flotantes sin parte decimal ("5.0").
func ParseIntCell(v any) (int, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		parsed, err := parseIntegral(v)
		if err != nil {
			return 0, err
		}
		n = parsed
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("%d: %w", n, errOutOfRange)
	}
	return int(n), nil
}

func parseIntegral(v any) (int64, error) {
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := ParseFloatCell(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v: %w", f, errNotIntegral)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%v: %w", f, errOutOfRange)
	}
	return int64(f), nil
}
