package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/stockdoc-api/internal/application/ports"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que AnthropicDocumentService implementa DocumentAnalyzer.
var _ ports.DocumentAnalyzer = (*AnthropicDocumentService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	anthropicSystemPrompt = `Eres un motor de OCR especializado en tablas de documentos comerciales (facturas, remitos, listas de empaque).
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código` + " ```json" + `) con esta estructura exacta:
{
  "tables": [
    { "rows": [ ["<celda>", "<celda>", ...], ... ] }
  ]
}

Reglas:
- Una entrada en "tables" por cada tabla visible, en el orden en que aparecen en el documento.
- Cada fila contiene el texto de sus celdas de izquierda a derecha, exactamente como está impreso.
- Incluye las filas de encabezado tal cual; no traduzcas ni interpretes el contenido.
- Celdas vacías o combinadas se devuelven como "".
- No incluyas texto fuera del JSON. Solo el objeto JSON.`
)

// AnthropicDocumentService adaptador que implementa DocumentAnalyzer usando la API REST de Anthropic (Claude)
// con entrada de visión. Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AnthropicDocumentService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicDocumentService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven domain.ErrAnalyzerUnavailable en lugar de panic.
func NewAnthropicDocumentService(apiKey, model string) *AnthropicDocumentService {
	return &AnthropicDocumentService{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicMessagesURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// WithBaseURL apunta el adaptador a otro endpoint compatible (pruebas, proxy).
func (s *AnthropicDocumentService) WithBaseURL(u string) *AnthropicDocumentService {
	if u != "" {
		s.baseURL = u
	}
	return s
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type llmTablesPayload struct {
	Tables []struct {
		Rows [][]string `json:"rows"`
	} `json:"tables"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque Claude lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// Analyze envía la imagen o PDF a Claude y convierte las tablas devueltas en grillas densas.
func (s *AnthropicDocumentService) Analyze(ctx context.Context, content []byte, contentType string) (*entity.AnalyzedDocument, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: ANTHROPIC_API_KEY: %w", domain.ErrAnalyzerUnavailable)
	}

	block, err := documentBlock(content, contentType)
	if err != nil {
		return nil, err
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 8192,
		System:    anthropicSystemPrompt,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicContentBlock{
				block,
				{Type: "text", Text: "Extrae todas las tablas de este documento."},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return nil, fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}

	rawText := anthResp.Content[0].Text
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}

	var parsed llmTablesPayload
	if err := json.Unmarshal([]byte(cleanJSON), &parsed); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de tablas: %w", err)
	}
	return rowsToDocument(parsed), nil
}

// documentBlock arma el bloque de contenido según el tipo MIME del archivo.
func documentBlock(content []byte, contentType string) (anthropicContentBlock, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(content)
		mediaType = strings.SplitN(mediaType, ";", 2)[0]
	}
	src := &anthropicSource{
		Type:      "base64",
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(content),
	}
	switch mediaType {
	case "application/pdf":
		return anthropicContentBlock{Type: "document", Source: src}, nil
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return anthropicContentBlock{Type: "image", Source: src}, nil
	default:
		return anthropicContentBlock{}, fmt.Errorf("AI: tipo de archivo no soportado %q: %w", mediaType, domain.ErrInvalidInput)
	}
}

// rowsToDocument normaliza filas de longitud variable a grillas rectangulares.
func rowsToDocument(p llmTablesPayload) *entity.AnalyzedDocument {
	doc := &entity.AnalyzedDocument{}
	for _, t := range p.Tables {
		cols := 0
		for _, r := range t.Rows {
			if len(r) > cols {
				cols = len(r)
			}
		}
		table := entity.NewDocumentTable(len(t.Rows), cols)
		for ri, r := range t.Rows {
			for ci, v := range r {
				table.Set(ri, ci, strings.TrimSpace(v))
			}
		}
		doc.Tables = append(doc.Tables, table)
	}
	return doc
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}

	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
