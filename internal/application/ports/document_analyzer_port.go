package ports

import (
	"context"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// DocumentAnalyzer define el puerto de salida hacia el servicio de análisis de layout (OCR + tablas).
// Cualquier adaptador (Azure Document Intelligence, Claude, mock) debe implementar esta interfaz;
// la aplicación solo conoce tablas de celdas de texto, nunca el formato del archivo.
type DocumentAnalyzer interface {
	// Analyze envía el documento (imagen o PDF) y devuelve sus tablas en orden de aparición.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Analyze(ctx context.Context, content []byte, contentType string) (*entity.AnalyzedDocument, error)
}
