package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/application/ports"
	"github.com/jhoicas/stockdoc-api/internal/application/usecase"
	"github.com/jhoicas/stockdoc-api/internal/domain/extraction"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
	infraai "github.com/jhoicas/stockdoc-api/internal/infrastructure/ai"
	infracache "github.com/jhoicas/stockdoc-api/internal/infrastructure/cache"
	"github.com/jhoicas/stockdoc-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stockdoc-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockdoc-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockdoc-api/internal/interfaces/http"
	"github.com/jhoicas/stockdoc-api/pkg/config"
	"github.com/jhoicas/stockdoc-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Str("analyzer", cfg.Analyzer.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL en producción, memoria para desarrollo local
	var (
		txRunner inventory.TxRunner
		movRepo  repository.MovementRepository
		itemRepo repository.InventoryItemRepository
		logRepo  repository.OperationLogRepository
	)
	switch cfg.DB.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		movRepo, itemRepo, logRepo = store.Movements(), store.Items(), store.OperationLog()
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		movRepo = postgres.NewMovementRepository(pool)
		itemRepo = postgres.NewInventoryItemRepository(pool)
		logRepo = postgres.NewOperationLogRepository(pool)
	}

	// Caché Redis opcional del listado de inventario
	var invCache inventory.InventoryCache
	if cfg.Cache.RedisURL != "" {
		client, err := infracache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer client.Close()
			invCache = infracache.NewInventoryCache(client, cfg.Cache.TTL)
		}
	}

	var analyzer ports.DocumentAnalyzer
	switch cfg.Analyzer.Provider {
	case config.AnalyzerAnthropic:
		analyzer = infraai.NewAnthropicDocumentService(cfg.Analyzer.AnthropicAPIKey, cfg.Analyzer.AnthropicModel)
	default:
		analyzer = infraai.NewAzureDocumentService(cfg.Analyzer.AzureEndpoint, cfg.Analyzer.AzureKey, cfg.Analyzer.AzureModel)
	}

	documentUC := usecase.NewDocumentUseCase(analyzer, extraction.NewTableExtractor(nil), cfg.Analyzer.Timeout)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, movRepo)
	confirmUC := inventory.NewConfirmMovementUseCase(txRunner, invCache, log, inventory.ConfirmOptions{
		AllowNegativeNewItem: cfg.Inventory.AllowNegativeNewItem,
	})
	queryUC := inventory.NewInventoryQueryUseCase(itemRepo, logRepo, invCache, log, cfg.Inventory.LogDefaultLimit)

	// PDF: reporte de existencias y auditoría
	reportUC := inventory.NewReportUseCase(queryUC, infrapdf.NewMarotoReportGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.UploadMaxBytes,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: cfg.Analyzer.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockDoc API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DocumentUC: documentUC,
		LedgerUC:   ledgerUC,
		ConfirmUC:  confirmUC,
		QueryUC:    queryUC,
		ReportUC:   reportUC,
		Validate:   validator.New(),
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
