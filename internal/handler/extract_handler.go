package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ladex/internal/extract"
	"ladex/internal/service"
)

// ExtractHandler handles document extraction requests.
type ExtractHandler struct {
	extractService service.ExtractService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractService service.ExtractService) *ExtractHandler {
	return &ExtractHandler{extractService: extractService}
}

// Extract handles POST /api/v1/extract
//
// Multipart form: "file" is the document; "use_enhancement" and
// "use_structured_hint" are optional booleans defaulting to true.
func (h *ExtractHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	result, err := h.extractService.Extract(c.Request.Context(), service.ExtractInput{
		File:   file,
		Header: header,
		Options: extract.Options{
			UseEnhancement:    formBool(c, "use_enhancement", true),
			UseStructuredHint: formBool(c, "use_structured_hint", true),
		},
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Capabilities handles GET /api/v1/capabilities
func (h *ExtractHandler) Capabilities(c *gin.Context) {
	RespondOK(c, h.extractService.Capabilities())
}

// formBool reads a boolean form value, falling back to def when the field
// is absent or unparseable.
func formBool(c *gin.Context, field string, def bool) bool {
	raw := c.PostForm(field)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
