package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"bazaar/config"
	_ "bazaar/docs"
	"bazaar/middleware"
	"bazaar/routes"
	"bazaar/services"
	"bazaar/storage"
)

// @title Bazaar Marketplace API
// @version 1.0
// @description Multi-seller marketplace with products, categories and per-seller carts
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	config.ConnectDB()
	defer config.CloseDB()

	config.InitRedis()
	defer config.CloseRedis()

	var blobs storage.BlobStore
	switch config.AppConfig.StorageDriver {
	case "cloudinary":
		store, err := storage.NewCloudinaryStore()
		if err != nil {
			log.Fatalf("Failed to init cloudinary storage: %v", err)
		}
		blobs = store
	default:
		store, err := storage.NewLocalStore(config.AppConfig.UploadDir)
		if err != nil {
			log.Fatalf("Failed to init local storage: %v", err)
		}
		blobs = store
	}

	var mailer services.Mailer
	if email, err := services.NewEmailService(); err != nil {
		log.Printf("Email service disabled: %v", err)
	} else {
		mailer = email
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	if config.AppConfig.StorageDriver != "cloudinary" {
		router.Static("/uploads", config.AppConfig.UploadDir)
	}

	routes.SetupRoutes(router, blobs, mailer)

	port := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)
	log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", config.AppConfig.Port)

	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
