package handler

import (
	"context"
	"net/http"
	"strconv"

	"wanderlens/internal/models"

	"github.com/gin-gonic/gin"
)

// FoodHandler handles nearby food spot requests
type FoodHandler struct {
	service FoodFinder
}

// FoodFinder interface for dependency injection
type FoodFinder interface {
	NearbyFood(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error)
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(svc FoodFinder) *FoodHandler {
	return &FoodHandler{service: svc}
}

// NearbyFood handles GET /food requests
func (h *FoodHandler) NearbyFood(c *gin.Context) {
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

	foodSpots, err := h.service.NearbyFood(c.Request.Context(), center, radius)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch food spots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"food_spots": foodSpots,
		"food_count": len(foodSpots),
		"center":     center,
		"radius":     radius,
	})
}
