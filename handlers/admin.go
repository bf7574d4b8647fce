// File: handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"playpark/middleware"
	"playpark/models"
	"playpark/services/bookingsvc"
	"playpark/services/sessionsvc"
	"playpark/utils"
)

// AdminHandler exposes session administration: single create/edit/delete,
// bulk generation, bulk replace, and the seat-sum reconciliation trigger.
type AdminHandler struct {
	Sessions sessionsvc.SessionService
	Bookings bookingsvc.BookingService
	Logger   *zap.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(sessions sessionsvc.SessionService, bookings bookingsvc.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Sessions: sessions, Bookings: bookings, Logger: logger}
}

// managerAllowed rejects branch managers operating outside their own branch.
func managerAllowed(actor models.Actor, branchID string) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleBranchManager && actor.BranchID == branchID
}

type createSessionRequest struct {
	BranchID   string          `json:"branchId" binding:"required"`
	Date       string          `json:"date" binding:"required"`
	Time       string          `json:"time" binding:"required"`
	Activity   models.Activity `json:"activity" binding:"required"`
	Label      string          `json:"label"`
	Type       string          `json:"type"`
	AgeGroup   string          `json:"ageGroup"`
	TotalSeats int             `json:"totalSeats" binding:"required"`
	Price      float64         `json:"price"`
}

// CreateSession creates one session.
func (h *AdminHandler) CreateSession(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if !managerAllowed(actor, req.BranchID) {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "branch managers may only manage their own branch")
		return
	}

	session := &models.Session{
		BranchID:   req.BranchID,
		Date:       req.Date,
		Time:       req.Time,
		Activity:   req.Activity,
		Label:      req.Label,
		Type:       req.Type,
		AgeGroup:   req.AgeGroup,
		TotalSeats: req.TotalSeats,
		Price:      req.Price,
	}
	created, err := h.Sessions.CreateSession(c.Request.Context(), actor, session)
	if err != nil {
		utils.JSONError(c, statusFor(err), "session creation failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": created})
}

type updateSessionRequest struct {
	models.SessionMetadataUpdate
	TotalSeats *int `json:"totalSeats,omitempty"`
}

// UpdateSession edits metadata and optionally capacity.
func (h *AdminHandler) UpdateSession(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	existing, err := h.Sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, statusFor(err), "session lookup failed", err.Error())
		return
	}
	if !managerAllowed(actor, existing.BranchID) {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "branch managers may only manage their own branch")
		return
	}

	updated, err := h.Sessions.UpdateSession(c.Request.Context(), actor, c.Param("id"), req.SessionMetadataUpdate, req.TotalSeats)
	if err != nil {
		utils.JSONError(c, statusFor(err), "session update failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": updated})
}

// DeleteSession removes a session with no booked seats.
func (h *AdminHandler) DeleteSession(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	existing, err := h.Sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, statusFor(err), "session lookup failed", err.Error())
		return
	}
	if !managerAllowed(actor, existing.BranchID) {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "branch managers may only manage their own branch")
		return
	}

	if err := h.Sessions.DeleteSession(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.JSONError(c, statusFor(err), "session delete failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type generateSessionsRequest struct {
	BranchID  string                   `json:"branchId" binding:"required"`
	Dates     []string                 `json:"dates" binding:"required"`
	Activity  models.Activity          `json:"activity" binding:"required"`
	Templates []models.SessionTemplate `json:"templates" binding:"required"`
}

// GenerateSessions bulk-creates sessions for the given dates, skipping dates
// already seeded for the branch/activity.
func (h *AdminHandler) GenerateSessions(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	var req generateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if !managerAllowed(actor, req.BranchID) {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "branch managers may only manage their own branch")
		return
	}

	created, err := h.Sessions.EnsureSessionsForDates(c.Request.Context(), actor, req.BranchID, req.Dates, req.Activity, req.Templates)
	if err != nil {
		utils.JSONError(c, statusFor(err), "session generation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

type replaceSessionsRequest struct {
	BranchID string               `json:"branchId" binding:"required"`
	Date     string               `json:"date" binding:"required"`
	Specs    []models.SessionSpec `json:"specs" binding:"required"`
	Force    bool                 `json:"force"`
}

// ReplaceSessions deletes and recreates a date's sessions. Refuses while
// non-cancelled bookings reference the date unless force is set.
func (h *AdminHandler) ReplaceSessions(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	var req replaceSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Sessions.ReplaceSessionsForDate(c.Request.Context(), actor, req.BranchID, req.Date, req.Specs, req.Force)
	if err != nil {
		utils.JSONError(c, statusFor(err), "session replace failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// Reconcile runs the seat-sum safety net on demand.
func (h *AdminHandler) Reconcile(c *gin.Context) {
	repair := c.Query("repair") == "true"

	drifts, err := h.Bookings.Reconcile(c.Request.Context(), repair)
	if err != nil {
		utils.JSONError(c, statusFor(err), "reconciliation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"drifts": drifts, "repaired": repair})
}
