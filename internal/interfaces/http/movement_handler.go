package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdoc-api/internal/application/dto"
	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// MovementHandler maneja el registro, consulta y confirmación de movimientos.
type MovementHandler struct {
	ledger   *inventory.LedgerUseCase
	confirm  *inventory.ConfirmMovementUseCase
	validate *validator.Validate
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.LedgerUseCase, confirm *inventory.ConfirmMovementUseCase, validate *validator.Validate) *MovementHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &MovementHandler{ledger: ledger, confirm: confirm, validate: validate}
}

// Stage godoc
// @Summary      Registrar movimientos pendientes
// @Description  Registra todos los renglones como movimientos PENDING en una sola transacción.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StageMovementsRequest  true  "movement_type (INBOUND|OUTBOUND) e items"
// @Success      201   {object}  dto.StageMovementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Stage(c *fiber.Ctx) error {
	var in dto.StageMovementsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}

	items := make([]entity.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, it.ToEntity())
	}
	ids, err := h.ledger.StageBatch(c.UserContext(), items, in.MovementType)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StageMovementsResponse{IDs: ids})
}

// ListPending godoc
// @Summary      Listar movimientos pendientes
// @Tags         movements
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.MovementDTO]
// @Router       /api/movements/pending [get]
func (h *MovementHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.ledger.ListPending(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementToDTO(m))
	}
	return c.JSON(dto.NewListResponse(out))
}

// Get godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	m, err := h.ledger.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementToDTO(m))
}

// Confirm godoc
// @Summary      Confirmar movimiento
// @Description  Aplica el movimiento al inventario y lo pasa a CONFIRMED. Una segunda confirmación devuelve 409.
// @Tags         movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.ConfirmMovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/confirm [post]
func (h *MovementHandler) Confirm(c *fiber.Ctx) error {
	res, err := h.confirm.Confirm(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConfirmMovementResponse{
		MovementID: res.MovementID,
		IsNewItem:  res.IsNewItem,
		Item:       dto.InventoryItemToDTO(res.Item),
		LogEntry:   dto.OperationLogEntryToDTO(res.LogEntry),
	})
}
