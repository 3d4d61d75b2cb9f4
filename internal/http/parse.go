package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/logger"
)

// maxEntrySize bounds the body of a single-entry parse request.
const maxEntrySize = 1 << 20

type ParseController struct {
	parser *clippings.Parser
}

func NewParseController(parser *clippings.Parser) *ParseController {
	if parser == nil {
		parser = clippings.NewParser()
	}
	return &ParseController{parser: parser}
}

// Parse handles POST /api/clippings/parse. The body is one raw clippings
// entry; the response is the parsed record.
func (controller *ParseController) Parse(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEntrySize+1))
	if err != nil {
		respondBadRequest(c, "failed to read request body")
		return
	}
	if len(body) > maxEntrySize {
		respondError(c, http.StatusRequestEntityTooLarge, "entry too large")
		return
	}
	raw := string(body)
	if strings.TrimSpace(raw) == "" {
		respondBadRequest(c, "entry is empty")
		return
	}

	record, err := controller.parser.Parse(raw)
	if err != nil {
		kind := clippings.ErrorKind(err)
		requestLogger(c).Debug("Entry rejected", logger.String("kind", kind), logger.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:     err.Error(),
			ErrorKind: kind,
			RequestID: c.GetString(ContextKeyRequestID),
		})
		return
	}

	c.JSON(http.StatusOK, record)
}
