// import carga un archivo de inventario (.xlsx o .csv) desde disco con la misma lógica
// de upsert por nombre que POST /api/stock/import.
//
// Uso: go run ./cmd/import ruta/inventario.xlsx
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/pharmacy-inventory/internal/application/dto"
	"github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/pharmacy-inventory/pkg/config"
	"github.com/jhoicas/pharmacy-inventory/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: import <archivo.xlsx|archivo.csv>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import"})

	if !spreadsheet.AllowedFile(path) {
		fmt.Fprintln(os.Stderr, "Use un archivo .xlsx o .csv")
		os.Exit(2)
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ds, err := spreadsheet.Read(filepath.Base(path), f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer archivo: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := inventory.NewImportStockUseCase(postgres.NewTxRunner(pool), nil, log.Zerolog())
	summary, err := uc.Import(ctx, ds)
	if err != nil {
		var missing *domain.MissingColumnsError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "Faltan columnas obligatorias: %v\n", missing.Columns)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error importando archivo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Lote %s: %s\n", summary.BatchID, dto.ImportMessage(summary.Inserted, summary.Updated))
	for _, msg := range summary.ErrorMessages() {
		fmt.Println("  " + msg)
	}
}
