package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/handlers"
	"github.com/harborline/storefront-api/internal/middleware"
)

// CORSMiddleware tells the browser the storefront frontend may call us.
// The allowed origin comes from .env so staging and production differ
// without a rebuild.
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Session-Id, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight OPTIONS requests get an empty 204
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must be the very first thing the router uses
	router.Use(CORSMiddleware())

	// Uploaded product images are served straight off disk
	router.Static("/uploads", "./uploads")

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Catalog Routes (Public) ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:slug", h.GetProduct)
		v1.GET("/categories", h.GetAllCategories)

		// --- Review Routes (Public reads; :id is the product ID) ---
		v1.GET("/reviews/product/:id", h.GetProductReviews)
		v1.GET("/reviews/product/:id/stats", h.GetReviewStats)

		// --- Shipping Routes (Public) ---
		v1.GET("/shipping/methods", h.ListShippingMethods)
		v1.POST("/shipping/calculate", h.CalculateShipping)

		// --- Coupon Dry-Run (Public, the real check happens at checkout) ---
		v1.POST("/coupons/validate", h.ValidateCoupon)

		// --- Newsletter Routes (Public) ---
		v1.POST("/newsletter/subscribe", h.SubscribeNewsletter)
		v1.POST("/newsletter/unsubscribe", h.UnsubscribeNewsletter)

		// --- Guest Order Tracking (Public, rate limited) ---
		v1.POST("/orders/track", h.TrackOrder)

		// --- Public Settings ---
		v1.GET("/settings/public", h.GetPublicSettings)

		// --- Session Routes (Guests welcome) ---
		// Carts, checkout and chat work for guests via X-Session-Id; the
		// optional middleware attaches the user when a token is present.
		session := v1.Group("/")
		session.Use(middleware.OptionalAuthMiddleware())
		{
			session.GET("/cart", h.GetCart)
			session.POST("/cart/items", h.AddToCart)
			session.PUT("/cart/items/:product_id", h.UpdateCartItem)
			session.DELETE("/cart/items/:product_id", h.DeleteCartItem)

			session.POST("/checkout", h.Checkout)

			session.POST("/chat/messages", h.PostChatMessage)
			session.GET("/chat/messages", h.GetChatMessages)
			session.POST("/chat/assistant", h.AskAssistant)
		}

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/profile/me", h.Me)

			auth.POST("/cart/merge", h.MergeCart)

			auth.GET("/orders", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)

			auth.POST("/reviews/product/:id", h.CreateReview)

			auth.POST("/wishlist/toggle", h.ToggleWishlist)
			auth.GET("/wishlist", h.GetWishlist)
		}

		// --- Admin Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("/dashboard", h.GetDashboardStats)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/categories", h.CreateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/orders", h.GetAllOrders)
			admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)

			admin.POST("/coupons", h.CreateCoupon)
			admin.GET("/coupons", h.GetAllCoupons)
			admin.PUT("/coupons/:id", h.UpdateCoupon)
			admin.DELETE("/coupons/:id", h.DeleteCoupon)

			admin.POST("/shipping/methods", h.CreateShippingMethod)
			admin.PUT("/shipping/methods/:id", h.UpdateShippingMethod)
			admin.DELETE("/shipping/methods/:id", h.DeleteShippingMethod)

			admin.GET("/reviews", h.GetAllReviews)
			admin.PATCH("/reviews/:id", h.ModerateReview)
			admin.DELETE("/reviews/:id", h.DeleteReview)

			admin.GET("/newsletter", h.GetSubscribers)

			admin.GET("/chat", h.GetAllConversations)
			admin.POST("/chat/reply", h.PostStaffReply)

			admin.GET("/settings", h.GetSettings)
			admin.PATCH("/settings", h.UpdateSettings)

			admin.POST("/upload", h.UploadImage)
			admin.POST("/create-staff", h.CreateStaff)
		}
	}

	return router
}
