package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stockdoc-api/internal/application/ports"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que AzureDocumentService implementa DocumentAnalyzer.
var _ ports.DocumentAnalyzer = (*AzureDocumentService)(nil)

const (
	azureAPIVersion      = "2023-07-31"
	azureDefaultModel    = "prebuilt-document"
	azureDefaultInterval = time.Second
	azureMaxResultBytes  = 32 * 1024 * 1024
)

// AzureDocumentService adaptador de Azure AI Document Intelligence (Form Recognizer) vía REST.
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AzureDocumentService struct {
	endpoint     string
	apiKey       string
	model        string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewAzureDocumentService construye el adaptador. model vacío usa "prebuilt-document".
// Si endpoint o apiKey están vacíos las llamadas devuelven domain.ErrAnalyzerUnavailable.
func NewAzureDocumentService(endpoint, apiKey, model string) *AzureDocumentService {
	if model == "" {
		model = azureDefaultModel
	}
	return &AzureDocumentService{
		endpoint:     strings.TrimRight(endpoint, "/"),
		apiKey:       apiKey,
		model:        model,
		pollInterval: azureDefaultInterval,
		httpClient: &http.Client{
			// Timeout por petición; el use case limita además la operación completa.
			Timeout: 30 * time.Second,
		},
	}
}

// WithPollInterval cambia el intervalo de consulta del resultado.
func (s *AzureDocumentService) WithPollInterval(d time.Duration) *AzureDocumentService {
	if d > 0 {
		s.pollInterval = d
	}
	return s
}

// ── Estructuras internas del protocolo analyze ────────────────────────────────

type azureOperation struct {
	Status        string `json:"status"`
	AnalyzeResult *struct {
		Tables []azureTable `json:"tables"`
	} `json:"analyzeResult"`
	Error *azureError `json:"error"`
}

type azureTable struct {
	RowCount    int         `json:"rowCount"`
	ColumnCount int         `json:"columnCount"`
	Cells       []azureCell `json:"cells"`
}

type azureCell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
}

type azureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type azureErrorEnvelope struct {
	Error *azureError `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Analyze envía el documento, consulta Operation-Location hasta que termina y
// convierte las tablas en grillas densas.
func (s *AzureDocumentService) Analyze(ctx context.Context, content []byte, contentType string) (*entity.AnalyzedDocument, error) {
	if s.endpoint == "" || s.apiKey == "" {
		return nil, fmt.Errorf("azure: AZURE_DOCUMENT_ENDPOINT/AZURE_DOCUMENT_KEY: %w", domain.ErrAnalyzerUnavailable)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	opURL, err := s.submit(ctx, content, contentType)
	if err != nil {
		return nil, err
	}

	for {
		op, retryAfter, err := s.poll(ctx, opURL)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(op.Status) {
		case "succeeded":
			return toAnalyzedDocument(op), nil
		case "failed", "canceled":
			if op.Error != nil {
				return nil, fmt.Errorf("azure: análisis fallido (%s): %s", op.Error.Code, op.Error.Message)
			}
			return nil, fmt.Errorf("azure: análisis terminado con estado %s", op.Status)
		}

		wait := s.pollInterval
		if retryAfter > 0 && retryAfter < 10*wait {
			wait = retryAfter
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("azure: timeout o cancelación: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (s *AzureDocumentService) submit(ctx context.Context, content []byte, contentType string) (string, error) {
	u := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s",
		s.endpoint, url.PathEscape(s.model), azureAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("azure: crear HTTP request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("azure: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("azure: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", azureHTTPError(resp)
	}
	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("azure: respuesta sin Operation-Location")
	}
	return opURL, nil
}

func (s *AzureDocumentService) poll(ctx context.Context, opURL string) (*azureOperation, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("azure: crear HTTP request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("azure: timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, fmt.Errorf("azure: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, azureHTTPError(resp)
	}
	var op azureOperation
	if err := json.NewDecoder(io.LimitReader(resp.Body, azureMaxResultBytes)).Decode(&op); err != nil {
		return nil, 0, fmt.Errorf("azure: deserializar resultado: %w", err)
	}

	var retryAfter time.Duration
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		retryAfter = time.Duration(secs) * time.Second
	}
	return &op, retryAfter, nil
}

func azureHTTPError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var env azureErrorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		return fmt.Errorf("azure: error HTTP %d (%s): %s", resp.StatusCode, env.Error.Code, env.Error.Message)
	}
	return fmt.Errorf("azure: HTTP %d: %s", resp.StatusCode, string(raw))
}

// toAnalyzedDocument coloca cada celda en (rowIndex, columnIndex); las posiciones
// cubiertas por spans quedan vacías.
func toAnalyzedDocument(op *azureOperation) *entity.AnalyzedDocument {
	doc := &entity.AnalyzedDocument{}
	if op.AnalyzeResult == nil {
		return doc
	}
	for _, t := range op.AnalyzeResult.Tables {
		table := entity.NewDocumentTable(t.RowCount, t.ColumnCount)
		for _, c := range t.Cells {
			table.Set(c.RowIndex, c.ColumnIndex, c.Content)
		}
		doc.Tables = append(doc.Tables, table)
	}
	return doc
}
