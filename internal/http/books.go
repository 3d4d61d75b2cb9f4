package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type BooksController struct {
	reader BookReader
}

func NewBooksController(reader BookReader) *BooksController {
	return &BooksController{
		reader: reader,
	}
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.reader.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.reader.GetBookByID(id)
	if err != nil {
		respondLookupError(c, err, "book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) SearchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	books, err := controller.reader.SearchBooks(query)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books), "query": query})
}

func (controller *BooksController) GetStats(c *gin.Context) {
	stats, err := controller.reader.GetStats()
	if err != nil {
		respondInternalError(c, err, "stats")
		return
	}
	c.IndentedJSON(http.StatusOK, stats)
}
