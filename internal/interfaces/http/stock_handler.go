package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharmacy-inventory/internal/application/dto"
	"github.com/jhoicas/pharmacy-inventory/internal/application/usecase"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del inventario.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar inventario
// @Description  Ordenado por nombre. search busca en name y generic_name (sin distinguir mayúsculas).
// @Tags         stock
// @Produce      json
// @Param        category  query  string  false  "Categoría exacta"
// @Param        search    query  string  false  "Texto a buscar"
// @Success      200       {object}  dto.StockListResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         stock
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, CodeValidation, "id inválido")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear artículo
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  Solo cambian los campos enviados. expiry_date "" elimina el vencimiento.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del artículo"
// @Param        body  body  dto.UpdateStockRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, CodeValidation, "id inválido")
	}
	var in dto.UpdateStockRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Tags         stock
// @Param        id   path  int  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, CodeValidation, "id inválido")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Vaciar inventario
// @Description  Elimina todos los artículos y devuelve cuántos se borraron.
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.ClearStockResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/clear [post]
func (h *StockHandler) Clear(c *fiber.Ctx) error {
	n, err := h.uc.ClearAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ClearStockResponse{
		Deleted: n,
		Message: fmt.Sprintf("Se eliminaron %d artículos del inventario", n),
	})
}

// BulkQuantities godoc
// @Summary      Actualizar cantidades en lote
// @Description  Ids inexistentes se ignoran; todas las cantidades se confirman juntas.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.QuantityUpdateRequest  true  "Pares id / quantity"
// @Success      200   {object}  dto.BulkQuantityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/quantities [patch]
func (h *StockHandler) BulkQuantities(c *fiber.Ctx) error {
	var in []dto.QuantityUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, CodeInvalidBody, "cuerpo inválido: se espera una lista de {id, quantity}")
	}
	for i := range in {
		if e := validateStruct(&in[i]); e != nil {
			e.Message = fmt.Sprintf("elemento %d: %s", i, e.Message)
			return c.Status(fiber.StatusBadRequest).JSON(e)
		}
	}
	out, err := h.uc.BulkUpdateQuantity(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Listar categorías
// @Tags         stock
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/categories [get]
func (h *StockHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func filterFromQuery(c *fiber.Ctx) repository.StockFilter {
	return repository.StockFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
}
