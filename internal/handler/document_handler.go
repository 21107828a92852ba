package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ladinglens/internal/csvexport"
	"ladinglens/internal/domain"
	"ladinglens/internal/service"
)

// DocumentHandler handles shipment document endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// parseListParams extracts limit and cursor query parameters.
func parseListParams(c *gin.Context) (limit int, cursor *string, err error) {
	limit = 50
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid 'limit': must be an integer")
		}
	}
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		cursor = &cursorStr
	}
	return limit, cursor, nil
}

// ListHBL handles GET /api/v1/hbl
func (h *DocumentHandler) ListHBL(c *gin.Context) {
	h.listByType(c, domain.DocTypeHBL)
}

// ListMBL handles GET /api/v1/mbl
func (h *DocumentHandler) ListMBL(c *gin.Context) {
	h.listByType(c, domain.DocTypeMBL)
}

func (h *DocumentHandler) listByType(c *gin.Context, docType domain.DocType) {
	limit, cursor, err := parseListParams(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	page, err := h.docService.ListByType(c.Request.Context(), docType, limit, cursor)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, page.Items, PageMeta{
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
		Limit:      limit,
	})
}

// GetByDedupeKey handles GET /api/v1/documents/:dedupeKey
func (h *DocumentHandler) GetByDedupeKey(c *gin.Context) {
	doc, err := h.docService.GetByDedupeKey(c.Request.Context(), c.Param("dedupeKey"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Stats handles GET /api/v1/documents/stats
func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.docService.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// ExportCSV handles GET /api/v1/documents/export/csv
func (h *DocumentHandler) ExportCSV(c *gin.Context) {
	filename := csvexport.BuildFilename("shipment_documents", "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.docService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers are already out; the best we can do is log.
		log.Printf("handler.DocumentHandler: csv export: %v", err)
	}
}

// ExportXLSX handles GET /api/v1/documents/export/xlsx
func (h *DocumentHandler) ExportXLSX(c *gin.Context) {
	filename := csvexport.BuildFilename("shipment_documents", "xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.docService.ExportXLSX(c.Request.Context(), c.Writer); err != nil {
		log.Printf("handler.DocumentHandler: xlsx export: %v", err)
	}
}
