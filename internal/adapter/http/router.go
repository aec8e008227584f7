package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mixit-delights/storefront/internal/adapter/geocode"
	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/adapter/ws"
	"github.com/mixit-delights/storefront/internal/app/tracking"
	"github.com/mixit-delights/storefront/internal/auth"
	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Auth     *auth.Service
	Catalog  interfaces.CatalogService
	Orders   interfaces.OrderService
	Profiles interfaces.ProfileService
	Tracking *tracking.Service
	Hub      *ws.Hub
	Geocoder *geocode.Client
	Searches *geocode.Debouncer
	Logger   logger.Logger
}

func NewRouter(cfg config.HTTPConfig, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Logger))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	menuHandler := NewMenuHandler(deps.Catalog, deps.Logger)
	orderHandler := NewOrderHandler(deps.Orders, deps.Logger)
	profileHandler := NewProfileHandler(deps.Profiles, deps.Logger)
	locationHandler := NewLocationHandler(deps.Geocoder, deps.Logger)
	trackingHandler := NewTrackingHandler(deps.Tracking, deps.Hub, deps.Searches, deps.Logger)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("/api")

	// Public surface: browsing and sign-in need no session.
	api.GET("/menu", menuHandler.List)
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/anonymous", authHandler.Anonymous)
	api.POST("/auth/custom-token", authHandler.CustomToken)
	api.POST("/auth/federated", authHandler.Federated)
	api.POST("/auth/password-reset", authHandler.PasswordReset)

	// Everything past here carries a session token (anonymous included).
	authed := api.Group("", auth.Middleware(deps.Auth))
	{
		authed.POST("/auth/admin", authHandler.ExchangePIN)

		authed.POST("/builder", orderHandler.StartBuild)
		authed.POST("/builder/:id/lines", orderHandler.AddLine)
		authed.PUT("/builder/:id/location", orderHandler.SetLocation)
		authed.PUT("/builder/:id/query", orderHandler.SetQuery)
		authed.DELETE("/builder/:id", orderHandler.AbandonBuild)
		authed.POST("/builder/:id/checkout", orderHandler.Checkout)

		authed.GET("/orders", orderHandler.History)
		authed.GET("/orders/active", orderHandler.Active)
		authed.GET("/rewards", orderHandler.Reward)

		authed.GET("/profile", profileHandler.Get)
		authed.PUT("/profile", profileHandler.Save)

		authed.GET("/locations/search", locationHandler.Search)
		authed.GET("/locations/reverse", locationHandler.Reverse)

		authed.GET("/tracking", trackingHandler.Snapshot)
	}

	// Admin console: requires the admin claim minted by the PIN exchange.
	admin := api.Group("/admin", auth.Middleware(deps.Auth), auth.RequireAdmin())
	{
		admin.GET("/orders", orderHandler.ListAll)
		admin.PUT("/orders/:id/status", orderHandler.Advance)
		admin.PUT("/orders/:id/dispatch", orderHandler.Dispatch)
		admin.POST("/menu", menuHandler.Save)
		admin.PUT("/menu", menuHandler.Save)
		admin.DELETE("/menu/:id", menuHandler.Delete)
		admin.POST("/menu/seed", menuHandler.Seed)
	}

	// Live subscriptions (menu, orders, profile, tracking, search).
	r.GET("/ws", WSAuth(deps.Auth), trackingHandler.Live)

	return r
}
