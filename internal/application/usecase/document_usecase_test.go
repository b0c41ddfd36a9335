package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdoc-api/internal/application/usecase"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

type stubAnalyzer struct {
	doc         *entity.AnalyzedDocument
	err         error
	contentType string
	deadline    bool
}

func (s *stubAnalyzer) Analyze(ctx context.Context, _ []byte, contentType string) (*entity.AnalyzedDocument, error) {
	s.contentType = contentType
	_, s.deadline = ctx.Deadline()
	return s.doc, s.err
}

func grid(rows ...[]string) entity.DocumentTable {
	t := entity.NewDocumentTable(len(rows), len(rows[0]))
	for r, row := range rows {
		for c, v := range row {
			t.Set(r, c, v)
		}
	}
	return t
}

func TestDocumentUseCase_Extract(t *testing.T) {
	an := &stubAnalyzer{doc: &entity.AnalyzedDocument{Tables: []entity.DocumentTable{
		grid([]string{"Codice", "Descrizione", "Quantità"}, []string{"A1", "Perno", "4"}),
	}}}
	uc := usecase.NewDocumentUseCase(an, nil, time.Second)

	items, err := uc.Extract(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A1", items[0].Code)
	assert.Equal(t, "image/jpeg", an.contentType)
	assert.True(t, an.deadline, "el analizador debe recibir un contexto con timeout")
}

func TestDocumentUseCase_SinTablaValida(t *testing.T) {
	uc := usecase.NewDocumentUseCase(&stubAnalyzer{doc: &entity.AnalyzedDocument{}}, nil, 0)
	_, err := uc.Extract(context.Background(), []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrNoValidTable)
}

func TestDocumentUseCase_ErroresDeEntradaYAnalizador(t *testing.T) {
	uc := usecase.NewDocumentUseCase(&stubAnalyzer{}, nil, 0)
	_, err := uc.Extract(context.Background(), nil, "image/png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	uc = usecase.NewDocumentUseCase(nil, nil, 0)
	_, err = uc.Extract(context.Background(), []byte("x"), "image/png")
	assert.ErrorIs(t, err, domain.ErrAnalyzerUnavailable)

	boom := errors.New("boom")
	uc = usecase.NewDocumentUseCase(&stubAnalyzer{err: boom}, nil, 0)
	_, err = uc.Extract(context.Background(), []byte("x"), "image/png")
	assert.ErrorIs(t, err, boom)
}
