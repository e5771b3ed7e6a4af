package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"zk-tipping.backend/internal/interfaces/http/handlers"
	"zk-tipping.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	credentialHandler   *handlers.CredentialHandler
	creatorHandler      *handlers.CreatorHandler
	subscriptionHandler *handlers.SubscriptionHandler
	chargeHandler       *handlers.ChargeHandler
	tipHandler          *handlers.TipHandler
	eventHandler        *handlers.EventHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/wallet-login", d.authHandler.WalletLogin)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Credential registry routes (protected)
		credentials := v1.Group("/credentials")
		credentials.Use(d.authMiddleware)
		{
			credentials.POST("/verify", d.credentialHandler.VerifyProof)
			credentials.POST("", d.credentialHandler.Register)
			credentials.GET("", d.credentialHandler.List)
			credentials.GET("/eligibility", d.credentialHandler.Eligibility)
			credentials.DELETE("/:nullifierHash", d.credentialHandler.Revoke)
		}

		// Creator routes (public read, protected write)
		creators := v1.Group("/creators")
		{
			creators.GET("", d.creatorHandler.List)
			creators.GET("/status", d.creatorHandler.Status)
			creators.GET("/me", d.authMiddleware, d.creatorHandler.Me)
			creators.PUT("/me", d.authMiddleware, d.creatorHandler.UpdateProfile)
			creators.POST("/me/links", d.authMiddleware, d.creatorHandler.AddLink)
			creators.GET("/:id", d.creatorHandler.Get)
			creators.GET("/:id/links", d.creatorHandler.ListLinks)
			creators.GET("/:id/earnings", d.creatorHandler.Earnings)
			creators.GET("/:id/tips", d.tipHandler.ListByCreator)
			creators.GET("/:id/withdrawals", d.tipHandler.ListWithdrawals)
			creators.POST("", d.authMiddleware, d.creatorHandler.Register)
		}

		// Subscription routes (protected)
		subscriptions := v1.Group("/subscriptions")
		subscriptions.Use(d.authMiddleware)
		{
			subscriptions.POST("", middleware.IdempotencyMiddleware(), d.subscriptionHandler.Subscribe)
			subscriptions.GET("", d.subscriptionHandler.List)
			subscriptions.GET("/:id", d.subscriptionHandler.Get)
			subscriptions.PUT("/:id", d.subscriptionHandler.Update)
			subscriptions.DELETE("/:id", d.subscriptionHandler.Cancel)
		}

		// Charge routes (public; charging is permissionless and the payment
		// history is on-chain public data)
		v1.GET("/subscriptions/:id/payments", d.subscriptionHandler.Payments)
		v1.GET("/subscriptions/:id/chargeable", d.chargeHandler.Chargeable)
		v1.POST("/subscriptions/:id/charge", d.chargeHandler.Charge)
		v1.POST("/subscriptions/:id/receipts", d.chargeHandler.RecordReceipt)

		// Tip and withdrawal routes (protected)
		v1.POST("/tips", d.authMiddleware, middleware.IdempotencyMiddleware(), d.tipHandler.RecordTip)
		v1.POST("/withdrawals", d.authMiddleware, middleware.IdempotencyMiddleware(), d.tipHandler.RequestWithdrawal)

		// Activity log (protected)
		v1.GET("/events", d.authMiddleware, d.eventHandler.List)
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
