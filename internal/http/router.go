package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware(cfg.Logger))

	health := NewHealthController(cfg.Pinger, cfg.Version)
	parseController := NewParseController(cfg.Parser)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	api.POST("/clippings/parse", parseController.Parse)

	if cfg.Pipeline != nil {
		kindleImporter := NewKindleImportController(cfg.Pipeline, cfg.MaxFileSize)
		api.POST("/import/kindle", kindleImporter.Import)
	}

	if cfg.BookReader != nil {
		booksController := NewBooksController(cfg.BookReader)
		api.GET("/books", booksController.GetAllBooks)
		api.GET("/books/search", booksController.SearchBooks)
		api.GET("/books/:id", booksController.GetBook)
		api.GET("/stats", booksController.GetStats)
	}

	if cfg.ImportReader != nil {
		importsController := NewImportsController(cfg.ImportReader)
		api.GET("/imports", importsController.ListImports)
		api.GET("/imports/:id", importsController.GetImport)
	}

	return router
}
