package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"machine-service-backend/internal/auth"
	"machine-service-backend/internal/mw"
	"machine-service-backend/internal/notify"
	"machine-service-backend/internal/store"
)

// RouterOptions carries the transport-level knobs for NewRouter.
type RouterOptions struct {
	JWTSecret       string
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router. Every route resolves
// the principal first; the response cache is applied only to endpoints
// whose bodies do not depend on the caller's scope.
func NewRouter(s store.Store, webpushOptions *webpush.Options, alerts *notify.WorkerPool, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, alerts)

	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	api.Use(auth.Middleware(opts.JWTSecret))
	{
		api.GET("/health", handler.GetHealth)
		api.GET("/me", handler.GetMe)

		api.GET("/machines", handler.ListMachines)
		api.GET("/machines/facets", handler.MachineFacets)
		api.GET("/machines/:id", handler.GetMachine)
		api.POST("/machines", handler.CreateMachine)
		api.PUT("/machines/:id", handler.UpdateMachine)
		api.DELETE("/machines/:id", handler.DeleteMachine)

		api.GET("/search", handler.SearchMachines)

		// Reference data is role-independent, safe to cache.
		api.GET("/maintenance-types", caching, handler.ListMaintenanceTypes)
		api.POST("/maintenance-types", handler.CreateMaintenanceType)
		api.PUT("/maintenance-types/:id", handler.UpdateMaintenanceType)
		api.DELETE("/maintenance-types/:id", handler.DeleteMaintenanceType)

		api.GET("/maintenance", handler.ListMaintenance)
		api.GET("/maintenance/facets", handler.MaintenanceFacets)
		api.POST("/maintenance", handler.CreateMaintenance)
		api.PUT("/maintenance/:id", handler.UpdateMaintenance)
		api.DELETE("/maintenance/:id", handler.DeleteMaintenance)

		api.GET("/claims", handler.ListClaims)
		api.GET("/claims/facets", handler.ClaimFacets)
		api.POST("/claims", handler.CreateClaim)
		api.PUT("/claims/:id", handler.UpdateClaim)
		api.DELETE("/claims/:id", handler.DeleteClaim)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
