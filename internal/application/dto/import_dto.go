package dto

import (
	"fmt"
	"strings"
)

// MaxDisplayedRowErrors cantidad de errores de fila que se muestran en el mensaje resumen.
const MaxDisplayedRowErrors = 5

// ImportResponse salida de la importación masiva desde hoja de cálculo.
type ImportResponse struct {
	BatchID    string   `json:"batch_id"`
	Inserted   int      `json:"inserted"`
	Updated    int      `json:"updated"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
	Message    string   `json:"message"`
}

// ImportMessage mensaje legible según lo que cambió la importación.
func ImportMessage(inserted, updated int) string {
	switch {
	case inserted > 0 && updated > 0:
		return fmt.Sprintf("Se importaron %d artículos nuevos y se actualizaron %d existentes", inserted, updated)
	case inserted > 0:
		return fmt.Sprintf("Se importaron %d artículos nuevos", inserted)
	case updated > 0:
		return fmt.Sprintf("Se actualizaron %d artículos existentes", updated)
	default:
		return "No se realizaron cambios en la base de datos"
	}
}

// SummarizeRowErrors une los primeros max errores y agrega "(+N más)" si hay más.
func SummarizeRowErrors(errs []string, max int) string {
	if len(errs) == 0 {
		return ""
	}
	if max <= 0 || len(errs) <= max {
		return strings.Join(errs, "; ")
	}
	return fmt.Sprintf("%s (+%d más)", strings.Join(errs[:max], "; "), len(errs)-max)
}
