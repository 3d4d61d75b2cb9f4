package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/logger"
	"github.com/mrlokans/clippings/internal/utils"
)

type KindleImportController struct {
	pipeline    *importers.Pipeline
	maxFileSize int64
}

func NewKindleImportController(pipeline *importers.Pipeline, maxFileSize int64) *KindleImportController {
	if maxFileSize <= 0 {
		maxFileSize = config.DefaultMaxFileSize
	}
	return &KindleImportController{
		pipeline:    pipeline,
		maxFileSize: maxFileSize,
	}
}

type KindleImportResult struct {
	Success            bool                   `json:"success"`
	Error              string                 `json:"error,omitempty"`
	SessionID          uint                   `json:"session_id,omitempty"`
	EntriesTotal       int                    `json:"entries_total"`
	EntriesFailed      int                    `json:"entries_failed"`
	BooksImported      int                    `json:"books_imported"`
	HighlightsImported int                    `json:"highlights_imported"`
	HighlightsCreated  int                    `json:"highlights_created"`
	HighlightsUpdated  int                    `json:"highlights_updated"`
	Errors             []importers.EntryError `json:"errors,omitempty"`
}

func newKindleImportResult(result importers.ImportResult) *KindleImportResult {
	return &KindleImportResult{
		Success:            true,
		SessionID:          result.SessionID,
		EntriesTotal:       result.EntriesTotal,
		EntriesFailed:      result.EntriesFailed,
		BooksImported:      result.BooksProcessed,
		HighlightsImported: result.HighlightsProcessed,
		HighlightsCreated:  result.HighlightsCreated,
		HighlightsUpdated:  result.HighlightsUpdated,
		Errors:             result.Errors,
	}
}

// Import handles POST /api/import/kindle with a multipart "clippings_file".
func (c *KindleImportController) Import(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("clippings_file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, &KindleImportResult{
			Success: false,
			Error:   "Clippings file not provided",
		})
		return
	}
	defer file.Close()

	// Check file size
	if header.Size > c.maxFileSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, &KindleImportResult{
			Success: false,
			Error:   fmt.Sprintf("File too large (max %d MB)", c.maxFileSize/(1024*1024)),
		})
		return
	}

	// Read file with size limit
	limitedReader := io.LimitReader(file, c.maxFileSize)

	result, err := c.pipeline.ImportClippings(ctx.Request.Context(), utils.UploadName(header.Filename), limitedReader)
	if err != nil {
		requestLogger(ctx).Error("Kindle import failed", logger.Error(err))
		response := newKindleImportResult(result)
		response.Success = false
		response.Error = fmt.Sprintf("Failed to import clippings: %v", err)
		ctx.JSON(http.StatusInternalServerError, response)
		return
	}

	ctx.JSON(http.StatusOK, newKindleImportResult(result))
}
