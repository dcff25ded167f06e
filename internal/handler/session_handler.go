package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/sku_console/internal/middleware"
	"github.com/GTDGit/sku_console/internal/service"
	"github.com/GTDGit/sku_console/internal/utils"
	"github.com/GTDGit/sku_console/pkg/skuapi"
)

// SessionHandler signs the console in and out of the SKU backend.
type SessionHandler struct {
	inventory *service.InventoryService
	limiter   *middleware.LoginRateLimiter
}

// NewSessionHandler creates a new SessionHandler. limiter may be nil.
func NewSessionHandler(inventory *service.InventoryService, limiter *middleware.LoginRateLimiter) *SessionHandler {
	return &SessionHandler{inventory: inventory, limiter: limiter}
}

// Login exchanges a username and password for a stored credential and
// returns the freshly loaded view. Rejected passwords count against the
// caller's IP.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required")
		return
	}

	ip := c.ClientIP()
	if h.limiter != nil && !h.limiter.Allow(ip) {
		log.Warn().Str("ip", ip).Msg("Login rate limit exceeded")
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
		return
	}

	if err := h.inventory.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		var failure *service.FailureError
		if h.limiter != nil && errors.As(err, &failure) && skuapi.IsUnauthorized(failure.Err) {
			h.limiter.Fail(ip)
		}
		respondError(c, err)
		return
	}
	if h.limiter != nil {
		h.limiter.Reset(ip)
	}

	utils.Success(c, http.StatusOK, "Login successful", h.inventory.View())
}

// Logout clears the stored credential.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.inventory.Logout(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Logout left a stored credential behind")
	}
	utils.Success(c, http.StatusOK, "Logged out", nil)
}

// Status reports whether a usable credential is held.
func (h *SessionHandler) Status(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Session status", gin.H{
		"authenticated": h.inventory.IsAuthenticated(c.Request.Context()),
	})
}
