package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockdoc-api/internal/application/ports"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/extraction"
)

// DefaultAnalyzeTimeout límite por defecto de la llamada al analizador de documentos.
const DefaultAnalyzeTimeout = 60 * time.Second

// DocumentUseCase orquesta el análisis de un documento de proveedor y la extracción de renglones.
// Aplica un timeout a cada llamada al analizador para que la latencia externa no bloquee el servidor.
type DocumentUseCase struct {
	analyzer  ports.DocumentAnalyzer
	extractor *extraction.TableExtractor
	timeout   time.Duration
}

// NewDocumentUseCase construye el caso de uso. timeout <= 0 usa DefaultAnalyzeTimeout.
func NewDocumentUseCase(analyzer ports.DocumentAnalyzer, extractor *extraction.TableExtractor, timeout time.Duration) *DocumentUseCase {
	if extractor == nil {
		extractor = extraction.NewTableExtractor(nil)
	}
	if timeout <= 0 {
		timeout = DefaultAnalyzeTimeout
	}
	return &DocumentUseCase{analyzer: analyzer, extractor: extractor, timeout: timeout}
}

// Extract analiza el contenido y devuelve los renglones de la primera tabla válida.
// Devuelve domain.ErrNoValidTable si ninguna tabla tiene la estructura esperada.
func (uc *DocumentUseCase) Extract(ctx context.Context, content []byte, contentType string) ([]entity.LineItem, error) {
	if len(content) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if uc.analyzer == nil {
		return nil, domain.ErrAnalyzerUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	doc, err := uc.analyzer.Analyze(ctx, content, contentType)
	if err != nil {
		return nil, fmt.Errorf("análisis de documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNoValidTable
	}
	return uc.extractor.Extract(*doc)
}
