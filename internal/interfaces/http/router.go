package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DocumentUC *usecase.DocumentUseCase
	LedgerUC   *inventory.LedgerUseCase
	ConfirmUC  *inventory.ConfirmMovementUseCase
	QueryUC    *inventory.InventoryQueryUseCase
	ReportUC   *inventory.ReportUseCase
	Validate   *validator.Validate
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	validate := deps.Validate
	if validate == nil {
		validate = validator.New()
	}
	api := app.Group("/api")

	// Documents
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	api.Post("/documents/extract", documentHandler.Extract)

	// Movements
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC, deps.ConfirmUC, validate)
	movements.Post("/", movementHandler.Stage)
	movements.Get("/pending", movementHandler.ListPending)
	movements.Get("/:id", movementHandler.Get)
	movements.Post("/:id/confirm", movementHandler.Confirm)

	// Inventory (las rutas fijas antes de /:code)
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.QueryUC, deps.ReportUC, validate)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/log", inventoryHandler.ListLog)
	inv.Get("/report.pdf", inventoryHandler.Report)
	inv.Get("/:code", inventoryHandler.GetItem)
}
