package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appinventory "github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/application/usecase"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/metrics"
)

// Pinger verifica la conexión a la BD (pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	StockUC     *usecase.StockUseCase
	ImportUC    *appinventory.ImportStockUseCase
	ReportUC    *usecase.ReportUseCase
	Logger      zerolog.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer // nil = sin /metrics
	DB          Pinger              // nil = /health sin ping
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger, deps.HTTPMetrics))

	app.Get("/health", healthHandler(deps))
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Stock
	stockHandler := NewStockHandler(deps.StockUC)
	stock := api.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Create)
	stock.Post("/clear", stockHandler.Clear)
	stock.Patch("/quantities", stockHandler.BulkQuantities)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Put("/:id", stockHandler.Update)
	stock.Delete("/:id", stockHandler.Delete)
	api.Get("/categories", stockHandler.Categories)

	// Importación masiva
	importHandler := NewImportHandler(deps.ImportUC)
	stock.Post("/import", importHandler.Import)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := api.Group("/reports")
	reports.Get("/stock.pdf", reportHandler.StockPDF)
	reports.Get("/stock.xlsx", reportHandler.StockXLSX)
}

// healthHandler: liveness + ping a la BD (503 si falla).
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.DB.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded", "service": deps.ServiceName, "database": err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
