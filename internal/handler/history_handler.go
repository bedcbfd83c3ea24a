package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ladex/internal/csvexport"
	"ladex/internal/service"
)

// HistoryHandler handles extraction-history endpoints.
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List handles GET /api/v1/extractions
func (h *HistoryHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	extractions, total, err := h.historyService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, extractions, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/extractions/:id
func (h *HistoryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}
	e, err := h.historyService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// Download handles GET /api/v1/extractions/:id/download
//
// Returns a presigned URL for the archived original document.
func (h *HistoryHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}
	url, err := h.historyService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Export handles GET /api/v1/extractions/export?format=csv|xlsx
func (h *HistoryHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, err := h.historyService.ExportCSV(c.Request.Context())
		if err != nil {
			HandleError(c, err)
			return
		}
		name := csvexport.BuildFilename("extractions", "csv")
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, err := h.historyService.ExportXLSX(c.Request.Context())
		if err != nil {
			HandleError(c, err)
			return
		}
		name := csvexport.BuildFilename("extractions", "xlsx")
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}

// pagination reads offset/limit query params with sane bounds.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return offset, limit
}
