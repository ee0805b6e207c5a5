package inventory

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// dateParser intenta interpretar el valor de una celda como fecha.
type dateParser func(v any) (time.Time, bool)

// looseDateLayouts formatos de último recurso (fecha con hora, ISO con zona, textuales).
var looseDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006 15:04:05",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

var looseDateConfig = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats:  looseDateLayouts,
}

// expiryDateParsers orden de prioridad para expiry_date; gana el primero que funcione.
var expiryDateParsers = []dateParser{
	parseTimeValue,
	layoutParser("2006-1-2"),
	layoutParser("2/1/2006"),
	parseLooseDate,
}

// ParseExpiryDate devuelve la fecha (sin hora, UTC) o nil si ningún formato aplica.
// Un valor ilegible no es un error de fila.
func ParseExpiryDate(v any) *time.Time {
	for _, parse := range expiryDateParsers {
		if t, ok := parse(v); ok {
			d := DateOnly(t)
			return &d
		}
	}
	return nil
}

// DateOnly descarta la hora y normaliza a UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseTimeValue(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	}
	return time.Time{}, false
}

func layoutParser(layout string) dateParser {
	return func(v any) (time.Time, bool) {
		s, ok := v.(string)
		if !ok {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
		return t, err == nil
	}
}

func parseLooseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := looseDateConfig.Parse(s)
	return t, err == nil
}
