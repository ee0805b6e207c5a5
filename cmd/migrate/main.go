// migrate aplica las migraciones goose embebidas sobre la BD configurada.
//
// Uso: go run ./cmd/migrate -cmd up|down|status|version|redo|reset [-to VERSION]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/pharmacy-inventory/pkg/config"
	"github.com/jhoicas/pharmacy-inventory/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "comando de migración: up|down|status|version|redo|reset|up-to|down-to")
	to := flag.String("to", "", "versión destino para up-to / down-to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Service: "migrate"}).Fatal().Err(err).Msg("cargar configuración")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	var args []string
	if *cmd == "up-to" || *cmd == "down-to" {
		if *to == "" {
			log.Fatal().Str("cmd", *cmd).Msg("falta -to")
		}
		args = append(args, *to)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, *cmd, args...); err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración fallida")
	}
	log.Info().Str("cmd", *cmd).Msg("migración completada")
}
