package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharmacy-inventory/internal/application/dto"
	appinventory "github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/spreadsheet"
)

// ImportHandler recibe la hoja de cálculo y ejecuta la importación masiva.
type ImportHandler struct {
	uc *appinventory.ImportStockUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *appinventory.ImportStockUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Import godoc
// @Summary      Importar inventario desde Excel/CSV
// @Description  Upsert por nombre. Columnas obligatorias: name, buy_price, sell_price, stock_quantity.
// @Description  Las filas inválidas se reportan y no detienen la importación; una falla de BD revierte todo.
// @Tags         stock
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .xlsx o .csv"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/stock/import [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return badRequest(c, CodeValidation, "no se seleccionó ningún archivo (campo file)")
	}
	if !spreadsheet.AllowedFile(fh.Filename) {
		return badRequest(c, CodeUnsupportedFile, "suba un archivo válido (.xlsx o .csv)")
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, CodeUnsupportedFile, "no se pudo abrir el archivo")
	}
	defer f.Close()

	ds, err := spreadsheet.Read(fh.Filename, f)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupportedFormat) || errors.Is(err, spreadsheet.ErrEmptyFile) {
			return respondError(c, err)
		}
		return badRequest(c, CodeUnsupportedFile, "no se pudo leer el archivo: "+err.Error())
	}

	summary, err := h.uc.Import(c.UserContext(), ds)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toImportResponse(summary))
}

func toImportResponse(s *appinventory.ImportSummary) dto.ImportResponse {
	errs := s.ErrorMessages()
	msg := dto.ImportMessage(s.Inserted, s.Updated)
	if len(errs) > 0 {
		msg += ". Errores: " + dto.SummarizeRowErrors(errs, dto.MaxDisplayedRowErrors)
	}
	return dto.ImportResponse{
		BatchID:    s.BatchID,
		Inserted:   s.Inserted,
		Updated:    s.Updated,
		ErrorCount: len(errs),
		Errors:     errs,
		Message:    msg,
	}
}
