// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/handlers"
	"github.com/pradeepthalla80/grocery-share-backend/internal/middleware"
	"github.com/pradeepthalla80/grocery-share-backend/internal/services"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	stockService := services.NewStockService(db)
	badgeService := services.NewBadgeService(db)

	authService := services.NewAuthService(db, cfg, notificationService)
	itemService := services.NewItemService(db, stockService, badgeService)
	conversationService := services.NewConversationService(db, notificationService)
	pickupService := services.NewPickupService(db, notificationService)
	ratingService := services.NewRatingService(db, badgeService)
	userService := services.NewUserService(db, ratingService)
	storeService := services.NewStoreService(db, badgeService, notificationService)
	paymentService := services.NewPaymentService(db, cfg, stockService, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	itemHandler := handlers.NewItemHandler(itemService, storageService)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	pickupHandler := handlers.NewPickupHandler(pickupService)
	ratingHandler := handlers.NewRatingHandler(ratingService, badgeService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	storeHandler := handlers.NewStoreHandler(storeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email/:token", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)
			users.GET("/:id/ratings", ratingHandler.ListUserRatings)
			users.GET("/:id/rating-summary", ratingHandler.GetRatingSummary)
			users.GET("/:id/badges", ratingHandler.ListUserBadges)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.PUT("/password", userHandler.ChangePassword)
				protected.POST("/upload-avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
			}
		}

		// Item routes
		items := v1.Group("/items")
		{
			items.GET("", middleware.OptionalAuth(), itemHandler.GetItems)
			items.GET("/nearby", middleware.OptionalAuth(), itemHandler.GetNearbyItems)
			items.GET("/:id", middleware.OptionalAuth(), itemHandler.GetItem)

			protected := items.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", itemHandler.CreateItem)
				protected.PUT("/:id", itemHandler.UpdateItem)
				protected.DELETE("/:id", itemHandler.DeleteItem)
				protected.POST("/:id/restock", itemHandler.RestockItem)
				protected.POST("/upload-images", middleware.UploadRateLimit(), itemHandler.UploadItemImages)
			}
		}

		// Conversation routes
		conversations := v1.Group("/conversations")
		conversations.Use(middleware.AuthRequired())
		{
			conversations.POST("", conversationHandler.StartConversation)
			conversations.GET("", conversationHandler.ListConversations)
			conversations.GET("/:id", conversationHandler.GetConversation)
			conversations.POST("/:id/messages", conversationHandler.SendMessage)
			conversations.GET("/:id/messages", conversationHandler.ListMessages)
			conversations.POST("/:id/reveal-address", conversationHandler.RevealAddress)
			conversations.POST("/:id/confirm-pickup", conversationHandler.ConfirmPickup)
		}

		// Pickup request routes
		pickups := v1.Group("/pickup-requests")
		pickups.Use(middleware.AuthRequired())
		{
			pickups.POST("", pickupHandler.CreateRequest)
			pickups.GET("", pickupHandler.ListRequests)
			pickups.GET("/:id", pickupHandler.GetRequest)
			pickups.PUT("/:id/accept", pickupHandler.AcceptRequest)
			pickups.PUT("/:id/decline", pickupHandler.DeclineRequest)
			pickups.PUT("/:id/cancel", pickupHandler.CancelRequest)
			pickups.PUT("/:id/confirm", pickupHandler.ConfirmRequest)
		}

		// Rating routes
		ratings := v1.Group("/ratings")
		ratings.Use(middleware.AuthRequired())
		{
			ratings.POST("", ratingHandler.CreateRating)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Store seller routes
		store := v1.Group("/store")
		store.Use(middleware.AuthRequired())
		{
			store.POST("/apply", storeHandler.Apply)
			store.GET("/agreement", storeHandler.GetMyAgreement)
		}

		// Order and payment routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", paymentHandler.CreateOrder)
			orders.GET("", paymentHandler.GetOrderHistory)
			orders.GET("/:id", paymentHandler.GetOrder)
			orders.POST("/confirm", paymentHandler.ConfirmPayment)
			orders.POST("/refund", paymentHandler.ProcessRefund)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", userHandler.ListUsers)
				adminUsers.PUT("/:id/status", userHandler.UpdateUserStatus)
			}

			adminStore := admin.Group("/store-agreements")
			{
				adminStore.GET("", storeHandler.ListAgreements)
				adminStore.PUT("/:id/review", storeHandler.ReviewAgreement)
			}
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", getCategoriesHandler)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}

func getCategoriesHandler(c *gin.Context) {
	categories := []map[string]interface{}{
		{"id": "produce", "name": "Fruits & Vegetables", "icon": "carrot"},
		{"id": "dairy", "name": "Dairy & Eggs", "icon": "milk"},
		{"id": "bakery", "name": "Bakery", "icon": "bread"},
		{"id": "pantry", "name": "Pantry Staples", "icon": "jar"},
		{"id": "meat", "name": "Meat & Fish", "icon": "fish"},
		{"id": "frozen", "name": "Frozen", "icon": "snowflake"},
		{"id": "beverages", "name": "Beverages", "icon": "cup"},
		{"id": "snacks", "name": "Snacks", "icon": "cookie"},
		{"id": "homemade", "name": "Homemade & Preserves", "icon": "pot"},
		{"id": "other", "name": "Other", "icon": "basket"},
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}
