package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"cataway-backend/config"
	"cataway-backend/internal/mw"
	"cataway-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(settings *store.Store, subs *store.SubscriptionStore, webpushOptions *webpush.Options, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(settings, subs, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/ready", handler.Ready)
	r.GET("/auth", handler.Auth)

	settingsGroup := r.Group("/settings")
	settingsGroup.Use(rateLimiter)
	{
		// POST /settings/add/{name}/{value}
		settingsGroup.POST("/add/:name/:value", handler.AddSetting)

		// GET /settings/{name}
		settingsGroup.GET("/:name", handler.GetSetting)
	}

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
