package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SainathReddyM/py-file-converter/internal/apperr"
	"github.com/SainathReddyM/py-file-converter/internal/auth"
	"github.com/SainathReddyM/py-file-converter/internal/convert"
	"github.com/SainathReddyM/py-file-converter/internal/models"
	"github.com/SainathReddyM/py-file-converter/internal/quota"
	"github.com/SainathReddyM/py-file-converter/internal/storage"
)

// Handler wires HTTP routes to the conversion service.
type Handler struct {
	service  *convert.Service
	registry *auth.Registry
	quota    *quota.Quota
	recorder *storage.Recorder
}

// NewHandler constructs a Handler instance. quota and recorder may be nil.
func NewHandler(service *convert.Service, registry *auth.Registry, q *quota.Quota, recorder *storage.Recorder) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
		quota:    q,
		recorder: recorder,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.health)

	conv := router.Group("/api/v1/conversion")
	conv.Use(auth.Middleware(h.registry))
	conv.POST("/pdf-to-word", h.pdfToWord)
	conv.POST("/word-to-pdf", h.wordToPDF)
	conv.GET("/history", h.history)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) pdfToWord(c *gin.Context) {
	h.convertUpload(c, models.FormatPDF, models.FormatDOCX)
}

func (h *Handler) wordToPDF(c *gin.Context) {
	h.convertUpload(c, models.FormatDOCX, models.FormatPDF)
}

// convertUpload is the shared request path: quota, multipart receive,
// service call, then streaming. The workspace is released only after the
// response body has been written.
func (h *Handler) convertUpload(c *gin.Context, source, target models.Format) {
	if key, ok := auth.KeyFromContext(c); ok {
		if !h.quota.Allow(c.Request.Context(), key) {
			h.writeError(c, apperr.ErrQuotaExceeded)
			return
		}
	}

	// Multipart framing adds overhead beyond the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxUploadBytes()+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(c, apperr.ErrPayloadTooLarge)
			return
		}
		h.writeError(c, fmt.Errorf("%w: file is required", apperr.ErrInvalidInput))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.writeError(c, apperr.ErrStorage)
		return
	}
	defer file.Close()

	result, err := h.service.Convert(c.Request.Context(), convert.Request{
		Payload:  file,
		Size:     header.Size,
		Filename: header.Filename,
		Source:   source,
		Target:   target,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer result.Close()

	c.Header("Content-Type", result.ContentType)
	c.FileAttachment(result.Path, result.DownloadName)
}

func (h *Handler) history(c *gin.Context) {
	if h.recorder == nil {
		c.JSON(http.StatusOK, gin.H{"jobs": make([]*models.ConversionJob, 0)})
		return
	}
	jobs, err := h.recorder.Recent(c.Request.Context(), 50)
	if err != nil {
		h.writeError(c, apperr.ErrStorage)
		return
	}
	if jobs == nil {
		jobs = make([]*models.ConversionJob, 0)
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{
		"error":   apperr.Kind(err),
		"message": err.Error(),
	})
}
