package handler

import (
	"context"
	"net/http"
	"strconv"

	"wanderlens/internal/models"

	"github.com/gin-gonic/gin"
)

// defaultRadiusM is applied when the radius query parameter is absent.
const defaultRadiusM = 1000

// AttractionsHandler handles nearby attraction requests
type AttractionsHandler struct {
	service AttractionsFinder
}

// AttractionsFinder interface for dependency injection
type AttractionsFinder interface {
	NearbyAttractions(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error)
}

// NewAttractionsHandler creates a new attractions handler
func NewAttractionsHandler(svc AttractionsFinder) *AttractionsHandler {
	return &AttractionsHandler{service: svc}
}

// NearbyAttractions handles GET /attractions requests
func (h *AttractionsHandler) NearbyAttractions(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	center := models.Coordinate{Lat: lat, Lon: lon}
	if !center.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	radius := defaultRadiusM
	if radiusStr := c.Query("radius"); radiusStr != "" {
		radius, err = strconv.Atoi(radiusStr)
		if err != nil || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
			return
		}
	}

	attractions, err := h.service.NearbyAttractions(c.Request.Context(), center, radius)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch attractions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attractions": attractions,
		"count":       len(attractions),
		"center":      center,
		"radius":      radius,
	})
}
