package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladinglens/internal/domain"
	"ladinglens/internal/handler"
	"ladinglens/internal/port"
	"ladinglens/internal/service"
	"ladinglens/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDocumentHandler() (*handler.DocumentHandler, *mocks.MockDocumentService) {
	mockSvc := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(mockSvc)
	return h, mockSvc
}

func TestDocumentHandler_ListHBL_Success(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	bl := "HBL-20260102"
	next := "cursor123"
	mockSvc.On("ListByType", mock.Anything, domain.DocTypeHBL, 50, (*string)(nil)).Return(&port.DocumentPage{
		Items:      []domain.ShipmentDocument{{DedupeKey: "k1", DocType: domain.DocTypeHBL, BLNumber: &bl}},
		NextCursor: &next,
		HasMore:    true,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/hbl", http.NoBody)

	h.ListHBL(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Meta.HasMore)
	require.NotNil(t, resp.Meta.NextCursor)
	assert.Equal(t, "cursor123", *resp.Meta.NextCursor)
}

func TestDocumentHandler_ListMBL_PassesCursor(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	cursor := "abc"
	mockSvc.On("ListByType", mock.Anything, domain.DocTypeMBL, 10, &cursor).Return(&port.DocumentPage{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/mbl?limit=10&cursor=abc", http.NoBody)

	h.ListMBL(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_List_InvalidLimit(t *testing.T) {
	h, _ := newDocumentHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/hbl?limit=abc", http.NoBody)

	h.ListHBL(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_List_InvalidCursor(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	cursor := "stale"
	mockSvc.On("ListByType", mock.Anything, domain.DocTypeHBL, 50, &cursor).Return(nil, domain.ErrInvalidCursor)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/hbl?cursor=stale", http.NoBody)

	h.ListHBL(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CURSOR", resp.Error.Code)
}

func TestDocumentHandler_GetByDedupeKey_NotFound(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	mockSvc.On("GetByDedupeKey", mock.Anything, "missing").Return(nil, domain.ErrDocumentNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/missing", http.NoBody)
	c.Params = gin.Params{{Key: "dedupeKey", Value: "missing"}}

	h.GetByDedupeKey(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_Stats(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	mockSvc.On("Stats", mock.Anything).Return(&service.DocumentStats{HBLCount: 4, MBLCount: 1}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/stats", http.NoBody)

	h.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hbl_count":4`)
}

func TestDocumentHandler_ExportCSV_SetsHeaders(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	mockSvc.On("ExportCSV", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/export/csv", http.NoBody)

	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shipment_documents_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
}

func TestDocumentHandler_ExportXLSX_SetsHeaders(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	mockSvc.On("ExportXLSX", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/export/xlsx", http.NoBody)

	h.ExportXLSX(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}
