package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cataway-backend/internal/store"
)

func setupSubscriptionRouter() (*gin.Engine, *store.SubscriptionStore) {
	gin.SetMode(gin.TestMode)
	subs := store.NewSubscriptionStore()
	handler := NewHandler(nil, subs, nil)

	r := gin.New()
	r.GET("/api/subscriptions", handler.GetSubscription)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	return r, subs
}

func TestPutSubscriptionInvalidBody(t *testing.T) {
	router, _ := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	router, subs := setupSubscriptionRouter()

	body := `{"endpoint":"https://push.example/abc","p256dh":"key","auth":"secret","alerts":["emptyTank"]}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	sub, ok := subs.Get("https://push.example/abc")
	require.True(t, ok)
	assert.Equal(t, "key", sub.P256DH)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/subscriptions?endpoint=https://push.example/abc", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alerts":["emptyTank"]}`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/subscriptions", strings.NewReader(`{"endpoint":"https://push.example/abc"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/subscriptions?endpoint=https://push.example/abc", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSubscriptionRequiresEndpoint(t *testing.T) {
	router, _ := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
