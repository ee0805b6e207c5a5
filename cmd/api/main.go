package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/application/usecase"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/pharmacy-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/pharmacy-inventory/internal/interfaces/http"
	"github.com/jhoicas/pharmacy-inventory/pkg/config"
	"github.com/jhoicas/pharmacy-inventory/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Service: "api"}).Fatal().Err(err).Msg("cargar configuración")
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, "up"); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	// Métricas: registro propio + colectores de runtime
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	importMetrics := metrics.NewImportMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	stockRepo := postgres.NewStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := usecase.NewStockUseCase(stockRepo, txRunner)
	importUC := inventory.NewImportStockUseCase(txRunner, importMetrics, log.Zerolog())
	reportUC := usecase.NewReportUseCase(stockUC, infrapdf.NewMarotoStockReport(), spreadsheet.NewXLSXExporter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Import.MaxUploadBytes(),
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pharmacy Inventory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		StockUC:     stockUC,
		ImportUC:    importUC,
		ReportUC:    reportUC,
		Logger:      log.Zerolog(),
		HTTPMetrics: httpMetrics,
		Gatherer:    reg,
		DB:          pool,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
