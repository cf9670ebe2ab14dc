package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bazaar/config"
	"bazaar/controllers"
	"bazaar/middleware"
	"bazaar/repositories"
	"bazaar/services"
	"bazaar/storage"
)

func SetupRoutes(router *gin.Engine, blobs storage.BlobStore, mailer services.Mailer) {
	userRepo := repositories.NewUserRepository()
	categoryRepo := repositories.NewCategoryRepository()
	productRepo := repositories.NewProductRepository()
	cartRepo := repositories.NewCartRepository()
	otpRepo := repositories.NewOTPRepository()

	productSvc := services.NewProductService(productRepo, categoryRepo, userRepo, blobs, config.AppConfig.MaxUploadSize)
	categorySvc := services.NewCategoryService(categoryRepo, productSvc)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	authSvc := services.NewAuthService(userRepo, otpRepo, mailer)

	authCtrl := controllers.NewAuthController(authSvc)
	productCtrl := controllers.NewProductController(productSvc)
	categoryCtrl := controllers.NewCategoryController(categorySvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	profileCtrl := controllers.NewProfileController(productSvc)
	adminCtrl := controllers.NewAdminController()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/forgot-password", authCtrl.ForgotPassword)
	router.POST("/auth/reset-password", authCtrl.ResetPassword)

	router.GET("/products/:id", productCtrl.GetByID)
	router.GET("/:username", profileCtrl.Show)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)
		auth.PATCH("/auth/profile", authCtrl.UpdateProfile)
		auth.POST("/auth/change-password", authCtrl.ChangePassword)

		auth.GET("/products", productCtrl.List)
		auth.POST("/products", productCtrl.Create)
		auth.PUT("/products/:id", productCtrl.Update)
		auth.DELETE("/products/:id", productCtrl.Delete)

		auth.GET("/categories", categoryCtrl.List)
		auth.POST("/categories", categoryCtrl.Create)
		auth.PUT("/categories/:id", categoryCtrl.Update)
		auth.DELETE("/categories/:id", categoryCtrl.Delete)

		auth.GET("/cart", cartCtrl.View)
		auth.POST("/cart/:productId", cartCtrl.AddItem)
		auth.PATCH("/cart/:itemId", cartCtrl.SetQuantity)
		auth.DELETE("/cart/:itemId", cartCtrl.RemoveItem)
		auth.DELETE("/cart", cartCtrl.Clear)

		auth.GET("/checkout/payment", cartCtrl.Payment)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", adminCtrl.Dashboard)
		admin.GET("/users", adminCtrl.ListUsers)
		admin.DELETE("/users/:id", adminCtrl.DeleteUser)
	}
}
