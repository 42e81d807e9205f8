package main

import (
	"net/http"

	"wanderlens/internal/config"
	"wanderlens/internal/handler"
	"wanderlens/internal/repository"
	"wanderlens/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Initialize layers
	repo := repository.NewOverpass(config.OverpassURL)

	placesService := service.NewPlacesService(repo)

	attractionsHandler := handler.NewAttractionsHandler(placesService)
	foodHandler := handler.NewFoodHandler(placesService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/attractions", attractionsHandler.NearbyAttractions)
	r.GET("/food", foodHandler.NearbyFood)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Run(config.ServerAddress)
}
