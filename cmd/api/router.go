package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookmarket-backend/internal/shared/authz"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/pkg/container"
)

// SetupRouter wires every route. Paths are served at the root; the
// marketplace frontend depends on these exact shapes.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigin),
	)

	router.GET("/health", healthCheckHandler(c))

	setupUserRoutes(router, c)
	setupBookRoutes(router, c)
	setupOrderRoutes(router, c)
	setupCheckoutRoutes(router, c)
	setupWishlistRoutes(router, c)
	setupReviewRoutes(router, c)

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(r *gin.Engine, c *container.Container) {
	auth := middleware.Auth(c.Verifier)
	adminOnly := middleware.RequireCapability(c.Policy, authz.CapabilityAdmin)

	// Registration is the only unauthenticated write in the API.
	r.POST("/users", c.UserHandler.Register)

	r.GET("/users", auth, adminOnly, c.UserHandler.ListUsers)
	r.GET("/users/role/:email", auth, c.UserHandler.GetRole)
	r.PATCH("/users/make-librarian/:id", auth, adminOnly, c.UserHandler.MakeLibrarian)
	r.PATCH("/users/make-admin/:id", auth, adminOnly, c.UserHandler.MakeAdmin)
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(r *gin.Engine, c *container.Container) {
	auth := middleware.Auth(c.Verifier)
	librarianOnly := middleware.RequireCapability(c.Policy, authz.CapabilityManageCatalog)
	adminOnly := middleware.RequireCapability(c.Policy, authz.CapabilityAdmin)

	r.GET("/books", c.BookHandler.List)
	r.GET("/latest-books", c.BookHandler.Latest)
	r.GET("/books/all", auth, adminOnly, c.BookHandler.ListAll)
	r.GET("/books/:id", c.BookHandler.GetByID)

	r.POST("/books", auth, librarianOnly, c.BookHandler.Create)
	r.PATCH("/books/:id", auth, librarianOnly, c.BookHandler.Update)
	r.PATCH("/books/status/:id", auth, librarianOnly, c.BookHandler.UpdateStatus)
	r.DELETE("/books/delete/:id", auth, adminOnly, c.BookHandler.Delete)
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(r *gin.Engine, c *container.Container) {
	auth := middleware.Auth(c.Verifier)
	librarianOnly := middleware.RequireCapability(c.Policy, authz.CapabilityManageCatalog)

	r.POST("/orders", auth, c.OrderHandler.Create)
	r.GET("/orders/:id", auth, c.OrderHandler.GetDetail)
	r.GET("/my-orders/:email", auth, c.OrderHandler.ListMine)
	r.GET("/my-invoices/:email", auth, c.OrderHandler.ListInvoices)
	r.GET("/librarian-orders/:email", auth, librarianOnly, c.OrderHandler.ListForLibrarian)

	r.PATCH("/orders/update-status/:id", auth, librarianOnly, c.OrderHandler.UpdateStatus)
	r.PATCH("/orders/cancel/:id", auth, c.OrderHandler.Cancel)
	r.PATCH("/orders/payment-success/:id", auth, c.OrderHandler.PaymentSuccess)
}

// ========================================
// CHECKOUT ROUTES
// ========================================
func setupCheckoutRoutes(r *gin.Engine, c *container.Container) {
	auth := middleware.Auth(c.Verifier)

	r.POST("/create-checkout-session", auth, c.CheckoutHandler.CreateSession)
}

// ========================================
// WISHLIST ROUTES
// ========================================
func setupWishlistRoutes(r *gin.Engine, c *container.Container) {
	auth := middleware.Auth(c.Verifier)

	r.POST("/wishlist", auth, c.WishlistHandler.Add)
	r.GET("/wishlist/:email", auth, c.WishlistHandler.List)
	r.DELETE("/wishlist/:id", auth, c.WishlistHandler.Remove)
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(r *gin.Engine, c *container.Container) {
	auth := middleware.Auth(c.Verifier)

	r.POST("/reviews", auth, c.ReviewHandler.Create)
	r.GET("/reviews/:bookId", c.ReviewHandler.ListByBook)
	r.GET("/user-can-review/:bookId/:email", c.ReviewHandler.Eligibility)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
