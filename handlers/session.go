// File: handlers/session.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"playpark/config"
	"playpark/models"
	"playpark/services/sessionsvc"
	"playpark/utils"
)

// SessionHandler exposes the availability query. The redis read-through cache
// lives here, at the boundary: on a storage failure the last cached answer is
// served with a staleness marker, while writes and seat accounting always go
// to the authoritative store.
type SessionHandler struct {
	Service sessionsvc.SessionService
	Cache   *redis.Client
	Logger  *zap.Logger
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc sessionsvc.SessionService, cache *redis.Client, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{Service: svc, Cache: cache, Logger: logger}
}

// Availability lists open sessions for a branch/activity/date range.
func (h *SessionHandler) Availability(c *gin.Context) {
	branchID := c.Query("branchId")
	activity := models.Activity(c.Query("activity"))
	from := c.Query("from")
	to := c.Query("to")

	if branchID == "" || !activity.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "branchId and a valid activity are required")
		return
	}

	cacheKey := "availability:" + branchID + ":" + string(activity) + ":" + from + ":" + to
	ctx := c.Request.Context()

	summaries, err := h.Service.Availability(ctx, branchID, activity, from, to)
	if err != nil {
		// Degraded read: fall back to the cached copy if one exists.
		if cached, ok := h.cachedAvailability(ctx, cacheKey); ok {
			h.Logger.Warn("serving stale availability from cache", zap.String("key", cacheKey), zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"sessions": cached, "stale": true})
			return
		}
		utils.JSONError(c, statusFor(err), "availability query failed", err.Error())
		return
	}

	h.storeAvailability(ctx, cacheKey, summaries)
	c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

func (h *SessionHandler) cachedAvailability(ctx context.Context, key string) ([]models.SessionSummary, bool) {
	if h.Cache == nil {
		return nil, false
	}
	data, err := h.Cache.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var summaries []models.SessionSummary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (h *SessionHandler) storeAvailability(ctx context.Context, key string, summaries []models.SessionSummary) {
	if h.Cache == nil {
		return
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.AvailabilityTTL) * time.Second
	if err := h.Cache.Set(ctx, key, data, ttl).Err(); err != nil {
		h.Logger.Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
	}
}
