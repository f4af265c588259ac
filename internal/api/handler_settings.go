package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"cataway-backend/internal/store"
)

// serverHeader identifies this backend in setting read responses.
const serverHeader = "cataway-backend/0.1"

// Ready handles the GET /ready liveness probe.
func (h *Handler) Ready(c *gin.Context) {
	c.String(http.StatusOK, "1\n")
}

// Auth handles the GET /auth placeholder handshake: it logs the request
// cookies and hands the client its language cookie. No credentials are
// checked.
func (h *Handler) Auth(c *gin.Context) {
	for _, ck := range c.Request.Cookies() {
		log.Printf("auth cookie: %s = %s", ck.Name, ck.Value)
	}
	c.SetCookie("lang", "en-US", 0, "/", "", false, false)
	c.String(http.StatusOK, "The CatAway setup has completed!")
}

// AddSetting handles POST /settings/add/{name}/{value}.
func (h *Handler) AddSetting(c *gin.Context) {
	name := c.Param("name")
	value := c.Param("value")

	if h.settings.Set(name, value) == store.SetOK {
		c.String(http.StatusOK, "%s was set to %s", name, value)
		return
	}
	c.String(http.StatusNotFound, "%s was not found and or '%s' was not a valid value ", name, value)
}

// GetSetting handles GET /settings/{name}. A setting that exists but has an
// empty value reads as not found.
func (h *Handler) GetSetting(c *gin.Context) {
	name := c.Param("name")

	value, found := h.settings.Get(name)
	if !found || value == "" {
		c.String(http.StatusNotFound, "%s was not found", name)
		return
	}

	c.Header("Server", serverHeader)
	c.Header("Content-Type", "text/plain")
	c.String(http.StatusOK, "%s is %s", name, value)
}
