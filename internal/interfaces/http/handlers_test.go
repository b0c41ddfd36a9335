package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdoc-api/internal/application/dto"
	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/application/usecase"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/extraction"
	"github.com/jhoicas/stockdoc-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stockdoc-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubAnalyzer struct {
	doc         *entity.AnalyzedDocument
	err         error
	contentType string
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ []byte, contentType string) (*entity.AnalyzedDocument, error) {
	s.contentType = contentType
	return s.doc, s.err
}

type stubReport struct{}

func (stubReport) GenerateInventoryReport(context.Context, []*entity.InventoryItem, []*entity.OperationLogEntry, time.Time) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

func table(rows ...[]string) entity.DocumentTable {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	t := entity.NewDocumentTable(len(rows), cols)
	for i, r := range rows {
		for j, v := range r {
			t.Set(i, j, v)
		}
	}
	return t
}

// buildTestApp arma la API completa sobre el store en memoria.
func buildTestApp(t *testing.T, analyzer *stubAnalyzer, allowNegative bool) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	query := inventory.NewInventoryQueryUseCase(store.Items(), store.OperationLog(), nil, nil, 0)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DocumentUC: usecase.NewDocumentUseCase(analyzer, extraction.NewTableExtractor(nil), time.Second),
		LedgerUC:   inventory.NewLedgerUseCase(tx, store.Movements()),
		ConfirmUC:  inventory.NewConfirmMovementUseCase(tx, nil, nil, inventory.ConfirmOptions{AllowNegativeNewItem: allowNegative}),
		QueryUC:    query,
		ReportUC:   inventory.NewReportUseCase(query, stubReport{}),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func upload(t *testing.T, app *fiber.App, filename, contentType string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func stage(t *testing.T, app *fiber.App, movementType string, items ...dto.LineItemDTO) []string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/movements", dto.StageMovementsRequest{MovementType: movementType, Items: items})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.StageMovementsResponse](t, resp).IDs
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestExtract_DevuelveRenglones(t *testing.T) {
	analyzer := &stubAnalyzer{doc: &entity.AnalyzedDocument{Tables: []entity.DocumentTable{
		table(
			[]string{"Cod. Art.", "Descrizione", "Q.tà"},
			[]string{"A-100", "Tornillo M8", "12,5"},
			[]string{"RIF. 4411", "", ""},
			[]string{"B-200", "Tuerca", "3"},
		),
	}}}
	app := buildTestApp(t, analyzer, true)

	resp := upload(t, app, "remito.jpg", "image/jpeg", []byte{0xFF, 0xD8})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.ExtractResponse](t, resp)

	assert.Equal(t, "remito.jpg", out.FileName)
	require.Equal(t, 2, out.Total)
	assert.Equal(t, "A-100", out.Items[0].Code)
	assert.Equal(t, "12.5", out.Items[0].Quantity)
	assert.Equal(t, "B-200", out.Items[1].Code)
	assert.Equal(t, "image/jpeg", analyzer.contentType)
}

func TestExtract_SinTablaValida422(t *testing.T) {
	analyzer := &stubAnalyzer{doc: &entity.AnalyzedDocument{Tables: []entity.DocumentTable{
		table([]string{"Fecha", "Total"}, []string{"01/01", "10"}),
	}}}
	resp := upload(t, buildTestApp(t, analyzer, true), "f.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "NO_VALID_TABLE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestExtract_AnalizadorNoConfigurado503(t *testing.T) {
	analyzer := &stubAnalyzer{err: domain.ErrAnalyzerUnavailable}
	resp := upload(t, buildTestApp(t, analyzer, true), "f.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestExtract_SinArchivo400(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, true)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/extract", strings.NewReader(""))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos e inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestStage_ValidacionDelCuerpo(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, true)

	resp := doJSON(t, app, http.MethodPost, "/api/movements", dto.StageMovementsRequest{
		MovementType: "TRANSFER",
		Items:        []dto.LineItemDTO{{Code: "A1", Quantity: "1"}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/movements", dto.StageMovementsRequest{MovementType: entity.MovementTypeInbound})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/movements", dto.StageMovementsRequest{
		MovementType: entity.MovementTypeInbound,
		Items:        []dto.LineItemDTO{{Code: "A1", Quantity: "-4"}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFlujoCompleto_RegistrarConfirmarConsultar(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, true)

	ids := stage(t, app, entity.MovementTypeInbound, dto.LineItemDTO{Code: "X1", Description: "Perno", Quantity: "5"})
	require.Len(t, ids, 1)

	pending := decode[dto.ListResponse[dto.MovementDTO]](t, doJSON(t, app, http.MethodGet, "/api/movements/pending", nil))
	require.Equal(t, 1, pending.Total)
	assert.Equal(t, ids[0], pending.Items[0].ID)
	assert.Equal(t, entity.MovementStatusPending, pending.Items[0].Status)

	resp := doJSON(t, app, http.MethodPost, "/api/movements/"+ids[0]+"/confirm", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	confirmed := decode[dto.ConfirmMovementResponse](t, resp)
	assert.True(t, confirmed.IsNewItem)
	assert.Equal(t, entity.OperationTypeNewItem, confirmed.LogEntry.OperationType)
	assert.Equal(t, "5", confirmed.Item.AvailableQuantity.String())

	// Segunda confirmación
	resp = doJSON(t, app, http.MethodPost, "/api/movements/"+ids[0]+"/confirm", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NOT_PENDING", decode[dto.ErrorResponse](t, resp).Code)

	out := stage(t, app, entity.MovementTypeOutbound, dto.LineItemDTO{Code: "X1", Quantity: "2"})
	resp = doJSON(t, app, http.MethodPost, "/api/movements/"+out[0]+"/confirm", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	item := decode[dto.InventoryItemDTO](t, doJSON(t, app, http.MethodGet, "/api/inventory/X1", nil))
	assert.Equal(t, "3", item.AvailableQuantity.String())
	assert.Equal(t, "Perno", item.Description)

	list := decode[dto.ListResponse[dto.InventoryItemDTO]](t, doJSON(t, app, http.MethodGet, "/api/inventory", nil))
	assert.Equal(t, 1, list.Total)

	logs := decode[dto.ListResponse[dto.OperationLogEntryDTO]](t, doJSON(t, app, http.MethodGet, "/api/inventory/log?limit=1", nil))
	require.Equal(t, 1, logs.Total)
	assert.Equal(t, entity.MovementTypeOutbound, logs.Items[0].OperationType)
	assert.Equal(t, "5", logs.Items[0].PreviousQuantity.String())
	assert.Equal(t, "3", logs.Items[0].ResultingQuantity.String())

	mov := decode[dto.MovementDTO](t, doJSON(t, app, http.MethodGet, "/api/movements/"+ids[0], nil))
	assert.Equal(t, entity.MovementStatusConfirmed, mov.Status)
	assert.NotNil(t, mov.ConfirmedAt)
}

func TestConfirm_SalidaSobreCodigoNuevoRechazada409(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, false)
	ids := stage(t, app, entity.MovementTypeOutbound, dto.LineItemDTO{Code: "N1", Quantity: "1"})

	resp := doJSON(t, app, http.MethodPost, "/api/movements/"+ids[0]+"/confirm", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NEGATIVE_INITIAL_STOCK", decode[dto.ErrorResponse](t, resp).Code)
}

func TestConsultas_NoEncontrado(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, true)

	assert.Equal(t, fiber.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/inventory/NOPE", nil).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/movements/no-existe", nil).StatusCode)
	assert.Equal(t, fiber.StatusConflict, doJSON(t, app, http.MethodPost, "/api/movements/no-existe/confirm", nil).StatusCode)
}

func TestListLog_LimiteInvalido400(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, true)
	assert.Equal(t, fiber.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/inventory/log?limit=5000", nil).StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/inventory/log?limit=abc", nil).StatusCode)
}

func TestReport_DevuelvePDF(t *testing.T) {
	app := buildTestApp(t, &stubAnalyzer{}, true)
	resp := doJSON(t, app, http.MethodGet, "/api/inventory/report.pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
