package search_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"estoquemobile/internal/api/search"
	"estoquemobile/internal/domain"
	"estoquemobile/internal/pkg/logger"
	"estoquemobile/internal/service/searchservice"
)

// MockSearchService é uma implementação mock da interface SearchService.
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query, category string) ([]domain.Product, error) {
	args := m.Called(ctx, query, category)
	if products := args.Get(0); products != nil {
		return products.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

// TestSearchHandler_ShortQueryHint verifica que a consulta curta demais
// responde 200 com resultado vazio e a dica "digite mais", e que o
// limiar da dica é o mesmo que governa o corte no serviço de busca.
func TestSearchHandler_ShortQueryHint(t *testing.T) {
	mockService := new(MockSearchService)
	mockService.On("Search", mock.Anything, "p", "").Return([]domain.Product{}, nil)

	handler := search.NewHandler(mockService, logger.NewLogger("error"))

	req := httptest.NewRequest(http.MethodGet, "/v1/search?q=p", nil)
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body search.SearchResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 0, body.Count)
	assert.Equal(t, fmt.Sprintf("Digite pelo menos %d caracteres", searchservice.MinQueryLen), body.Hint)
}

// TestSearchHandler_LongQueryNoHint verifica que a consulta com tamanho
// suficiente não recebe dica.
func TestSearchHandler_LongQueryNoHint(t *testing.T) {
	mockService := new(MockSearchService)
	mockService.On("Search", mock.Anything, "p0", "").Return([]domain.Product{
		{Code: "P001", Name: "Parafuso", CurrentStock: 10, MinStock: 5},
	}, nil)

	handler := search.NewHandler(mockService, logger.NewLogger("error"))

	req := httptest.NewRequest(http.MethodGet, "/v1/search?q=p0", nil)
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body search.SearchResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	assert.Empty(t, body.Hint)
	assert.Equal(t, "P001", body.Results[0].Code)
}
