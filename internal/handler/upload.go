package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seedtracker-api/internal/service"
)

// Multipart field names accepted by POST /upload.
const (
	SpeciesField     = "species"
	CollectionsField = "collections"
)

// UploadHandler handles source file uploads
type UploadHandler struct {
	service  UploadService
	maxBytes int64
}

// UploadService interface for dependency injection
type UploadService interface {
	Ingest(context.Context, service.UploadInput) (*service.UploadResult, error)
}

// NewUploadHandler creates a new upload handler. Request bodies larger than
// maxBytes are rejected.
func NewUploadHandler(svc UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: svc, maxBytes: maxBytes}
}

// Upload godoc
//
//	@Summary		Replace both source spreadsheets and reload the dataset
//	@Description	Both files must be .csv. On success the active source files are replaced atomically.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			species		formData	file	true	"Species cultivation sheet (.csv)"
//	@Param			collections	formData	file	true	"Seed collection sheet (.csv)"
//	@Success		200			{object}	service.UploadResult
//	@Failure		400			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	species, err := c.FormFile(SpeciesField)
	if err != nil {
		formError(c, SpeciesField, err)
		return
	}
	collections, err := c.FormFile(CollectionsField)
	if err != nil {
		formError(c, CollectionsField, err)
		return
	}

	speciesPart, err := species.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	defer speciesPart.Close()

	collectionsPart, err := collections.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	defer collectionsPart.Close()

	result, err := h.service.Ingest(c.Request.Context(), service.UploadInput{
		Species:     service.FilePart{Filename: species.Filename, Body: speciesPart},
		Collections: service.FilePart{Filename: collections.Filename, Body: collectionsPart},
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidUpload) || errors.Is(err, service.ErrInvalidSource) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func formError(c *gin.Context, field string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds the size limit"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "missing required file field '" + field + "'"})
}
