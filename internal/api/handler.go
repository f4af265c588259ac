package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"cataway-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	settings *store.Store
	subs     *store.SubscriptionStore
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(settings *store.Store, subs *store.SubscriptionStore, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		settings: settings,
		subs:     subs,
		webpush:  webpushOptions,
	}
}
