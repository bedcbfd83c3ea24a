package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladex/internal/config"
	"ladex/internal/domain"
	"ladex/internal/handler"
	"ladex/internal/service"
	"ladex/mocks"
)

func setupHistoryRouter(repo *mocks.MockExtractionRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	historySvc := service.NewHistoryService(repo, nil, &config.S3Config{})
	h := handler.NewHistoryHandler(historySvc)

	r := gin.New()
	r.GET("/api/v1/extractions", h.List)
	r.GET("/api/v1/extractions/export", h.Export)
	r.GET("/api/v1/extractions/:id", h.Get)
	return r
}

func TestHistoryList(t *testing.T) {
	repo := new(mocks.MockExtractionRepo)
	repo.On("List", mock.Anything, 0, 50).Return([]domain.Extraction{
		{ID: uuid.New(), FileName: "bl-scan.pdf", Method: domain.MethodPatternOnly},
	}, 1, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/extractions", nil)
	setupHistoryRouter(repo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestHistoryGet_NotFound(t *testing.T) {
	repo := new(mocks.MockExtractionRepo)
	repo.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrExtractionNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/extractions/"+uuid.NewString(), nil)
	setupHistoryRouter(repo).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EXTRACTION_NOT_FOUND", resp.Error.Code)
}

func TestHistoryGet_InvalidID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/extractions/not-a-uuid", nil)
	setupHistoryRouter(new(mocks.MockExtractionRepo)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryExport_CSV(t *testing.T) {
	repo := new(mocks.MockExtractionRepo)
	repo.On("List", mock.Anything, 0, mock.Anything).Return([]domain.Extraction{}, 0, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/extractions/export?format=csv", nil)
	setupHistoryRouter(repo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Document Name")
}

func TestHistoryExport_UnknownFormat(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/extractions/export?format=pdf", nil)
	setupHistoryRouter(new(mocks.MockExtractionRepo)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
