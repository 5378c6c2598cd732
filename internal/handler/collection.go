package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seedtracker-api/internal/models"
	"seedtracker-api/internal/service"
)

// CollectionHandler handles collection lookups and bounding-box listings
type CollectionHandler struct {
	service CollectionService
}

// CollectionService interface for dependency injection
type CollectionService interface {
	GetCollection(context.Context, string) (*models.JoinedRecord, error)
	ListCollections(context.Context, models.BBoxQuery) (*models.Page, error)
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(svc CollectionService) *CollectionHandler {
	return &CollectionHandler{service: svc}
}

// GetCollection godoc
//
//	@Summary	Get one seed collection
//	@Tags		collections
//	@Produce	json
//	@Param		code	path		string	true	"Collection code"
//	@Success	200		{object}	models.JoinedRecord
//	@Failure	404		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/collections/{code} [get]
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	code := c.Param("code")

	record, err := h.service.GetCollection(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListCollections godoc
//
//	@Summary		List seed collections inside a bounding box
//	@Description	Missing bounds default to the whole globe. Results are ordered by collection code.
//	@Tags			collections
//	@Produce		json
//	@Param			minLat	query		number	false	"Minimum latitude"	default(-90)
//	@Param			maxLat	query		number	false	"Maximum latitude"	default(90)
//	@Param			minLng	query		number	false	"Minimum longitude"	default(-180)
//	@Param			maxLng	query		number	false	"Maximum longitude"	default(180)
//	@Param			limit	query		int		false	"Page size, clamped to [1, 1000]"	default(100)
//	@Param			offset	query		int		false	"Matches to skip"	default(0)
//	@Success		200		{object}	models.Page
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/collections [get]
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	page, ok := h.list(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListCollectionsGeoJSON godoc
//
//	@Summary	List located seed collections as a GeoJSON FeatureCollection
//	@Tags		collections
//	@Produce	json
//	@Param		minLat	query		number	false	"Minimum latitude"	default(-90)
//	@Param		maxLat	query		number	false	"Maximum latitude"	default(90)
//	@Param		minLng	query		number	false	"Minimum longitude"	default(-180)
//	@Param		maxLng	query		number	false	"Maximum longitude"	default(180)
//	@Param		limit	query		int		false	"Page size, clamped to [1, 1000]"	default(100)
//	@Param		offset	query		int		false	"Matches to skip"	default(0)
//	@Success	200		{object}	object
//	@Failure	400		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/collections.geojson [get]
func (h *CollectionHandler) ListCollectionsGeoJSON(c *gin.Context) {
	page, ok := h.list(c)
	if !ok {
		return
	}
	body, err := featureCollection(page).MarshalJSON()
	if err != nil {
		internalError(c, err)
		return
	}
	c.Data(http.StatusOK, geoJSONContentType, body)
}

func (h *CollectionHandler) list(c *gin.Context) (*models.Page, bool) {
	query, err := parseBBoxQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	page, err := h.service.ListCollections(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBoundingBox) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		internalError(c, err)
		return nil, false
	}
	return page, true
}

// parseBBoxQuery reads the listing parameters. Absent bounds cover the whole
// globe; present but malformed numbers are rejected.
func parseBBoxQuery(c *gin.Context) (models.BBoxQuery, error) {
	q := models.WholeGlobe(service.DefaultLimit, 0)

	floats := []struct {
		name string
		dst  *float64
	}{
		{"minLat", &q.MinLat},
		{"maxLat", &q.MaxLat},
		{"minLng", &q.MinLng},
		{"maxLng", &q.MaxLng},
	}
	for _, f := range floats {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("invalid %s format", f.name)
		}
		*f.dst = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"limit", &q.Limit},
		{"offset", &q.Offset},
	}
	for _, f := range ints {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid %s format", f.name)
		}
		*f.dst = v
	}

	return q, nil
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err) // surfaced by the access log
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
