package main

import (
	"log"
	"net/http"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/config"
	"github.com/garvbarthwal/Kisaan-sub001/database"
	"github.com/garvbarthwal/Kisaan-sub001/handlers"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	// Initialize Cloudinary for produce images
	if config.AppConfig.CloudinaryURL != "" {
		if err := services.InitializeCloudinary(config.AppConfig.CloudinaryURL); err != nil {
			log.Printf("Failed to initialize Cloudinary: %v", err)
		}
	} else {
		log.Printf("CLOUDINARY_URL not set, image uploads disabled")
	}

	// Initialize handlers and the checkout session manager
	handlers.InitializeHandlers(db)
	handlers.InitializeCheckout(db)

	// Start the reminder scheduler
	go services.NewNotificationScheduler().Run(time.Minute)

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.Default()

	// Add CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Kisaan server is running",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/validate", handlers.ValidateToken)
			auth.PUT("/update-push-token", handlers.AuthMiddleware(), handlers.UpdatePushToken)
		}

		// Public catalog routes
		farmers := api.Group("/farmers")
		{
			farmers.GET("/", handlers.GetFarmers)
			farmers.GET("/:id", handlers.GetFarmer)
			farmers.GET("/:id/business-hours", handlers.GetFarmerBusinessHours)
		}

		products := api.Group("/products")
		{
			products.GET("/", handlers.GetProducts)
			products.GET("/:id", handlers.GetProduct)
		}

		api.GET("/payment-methods", handlers.GetPaymentMethods)

		// Farmer routes (protected, farmer role)
		farmer := api.Group("/farmer")
		farmer.Use(handlers.AuthMiddleware(), handlers.FarmerMiddleware())
		{
			farmer.PUT("/profile", handlers.UpdateFarmerProfile)
			farmer.PUT("/business-hours", handlers.SetFarmerBusinessHours)
			farmer.POST("/products", handlers.CreateProduct)
			farmer.PUT("/products/:id", handlers.UpdateProduct)
			farmer.DELETE("/products/:id", handlers.DeleteProduct)
			farmer.POST("/products/upload-image", handlers.UploadProductImage)
			farmer.GET("/orders", handlers.GetFarmerOrders)
			farmer.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		}

		// Cart routes (protected)
		cart := api.Group("/cart")
		cart.Use(handlers.AuthMiddleware())
		{
			cart.GET("/", handlers.GetCart)
			cart.POST("/add", handlers.AddToCart)
			cart.PUT("/items/:productId", handlers.UpdateCartItem)
			cart.DELETE("/items/:productId", handlers.RemoveFromCart)
			cart.DELETE("/clear", handlers.ClearCart)
		}

		// Checkout routes (protected)
		checkout := api.Group("/checkout")
		checkout.Use(handlers.AuthMiddleware())
		{
			checkout.GET("/", handlers.GetCheckoutSession)
			checkout.GET("/pickup-availability", handlers.GetPickupAvailability)
			checkout.PUT("/order-type", handlers.SetOrderType)
			checkout.PUT("/draft", handlers.UpdateCheckoutDraft)
			checkout.POST("/validate", handlers.ValidateCheckout)
			checkout.POST("/refresh-business-hours", handlers.RefreshBusinessHours)
		}

		// Order routes (protected)
		orders := api.Group("/orders")
		orders.Use(handlers.AuthMiddleware())
		{
			orders.POST("/", handlers.CreateOrder)
			orders.GET("/", handlers.GetMyOrders)
			orders.GET("/:id", handlers.GetOrder)
			orders.PUT("/:id/cancel", handlers.CancelOrder)
		}

		// Address book routes (protected)
		addresses := api.Group("/addresses")
		addresses.Use(handlers.AuthMiddleware())
		{
			addresses.GET("/", handlers.GetAddresses)
			addresses.POST("/", handlers.CreateAddress)
			addresses.PUT("/:id", handlers.UpdateAddress)
			addresses.DELETE("/:id", handlers.DeleteAddress)
		}

		// Messaging routes (protected)
		messages := api.Group("/messages")
		messages.Use(handlers.AuthMiddleware())
		{
			messages.GET("/conversations", handlers.GetConversations)
			messages.GET("/conversations/:id", handlers.GetMessages)
			messages.POST("/", handlers.SendMessage)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(handlers.AuthMiddleware())
		{
			notifications.GET("/", handlers.GetNotifications)
			notifications.PUT("/:id/read", handlers.MarkNotificationRead)
			notifications.PUT("/read-all", handlers.MarkAllNotificationsRead)
		}

		// Farming advice (protected)
		api.POST("/advice", handlers.AuthMiddleware(), handlers.AskAdvice)
	}

	// Start server
	log.Printf("Starting Kisaan server on 0.0.0.0:%s", config.AppConfig.ServerPort)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+config.AppConfig.ServerPort, c.Handler(router)))
}
