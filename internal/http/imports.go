package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// defaultImportsLimit caps the session list when no limit is given.
const defaultImportsLimit = 50

type ImportsController struct {
	reader ImportSessionReader
}

func NewImportsController(reader ImportSessionReader) *ImportsController {
	return &ImportsController{reader: reader}
}

func (controller *ImportsController) ListImports(c *gin.Context) {
	limit, ok := parseLimitQuery(c, defaultImportsLimit)
	if !ok {
		return
	}

	sessions, err := controller.reader.ListImportSessions(limit)
	if err != nil {
		respondInternalError(c, err, "list imports")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"imports": sessions, "count": len(sessions)})
}

func (controller *ImportsController) GetImport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := controller.reader.GetImportSession(id)
	if err != nil {
		respondLookupError(c, err, "import")
		return
	}
	c.IndentedJSON(http.StatusOK, session)
}
