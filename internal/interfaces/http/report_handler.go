package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharmacy-inventory/internal/application/usecase"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler descarga de reportes del inventario.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockPDF godoc
// @Summary      Reporte PDF del inventario
// @Tags         reports
// @Produce      application/pdf
// @Param        category  query  string  false  "Categoría exacta"
// @Param        search    query  string  false  "Texto a buscar"
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.StockPDF(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, doc, filename, contentTypePDF)
}

// StockXLSX godoc
// @Summary      Exportar inventario a Excel
// @Description  Las columnas coinciden con las de importación; el archivo se puede volver a subir.
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        category  query  string  false  "Categoría exacta"
// @Param        search    query  string  false  "Texto a buscar"
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.xlsx [get]
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	doc, filename, err := h.uc.StockXLSX(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, doc, filename, contentTypeXLSX)
}

func sendAttachment(c *fiber.Ctx, body []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
