// Comando initdb: aplica las migraciones embebidas sobre la base configurada.
// Uso: go run ./cmd/initdb
package main

import (
	"context"
	"time"

	"github.com/jhoicas/stockdoc-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockdoc-api/pkg/config"
	"github.com/jhoicas/stockdoc-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("initdb")

	if cfg.DB.Driver != config.StoreDriverPostgres {
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("initdb requiere STORE_DRIVER=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if len(applied) == 0 {
		log.Info().Msg("esquema al día, no hay migraciones pendientes")
		return
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
}
