// File: handlers/booking.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"playpark/middleware"
	"playpark/models"
	"playpark/services/bookingsvc"
	"playpark/services/payment"
	"playpark/utils"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Service  bookingsvc.BookingService
	Payments payment.ConfirmationResolver
	Logger   *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc bookingsvc.BookingService, payments payment.ConfirmationResolver, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Payments: payments, Logger: logger}
}

type createBookingRequest struct {
	SessionID string                  `json:"sessionId" binding:"required"`
	Seats     int                     `json:"seats" binding:"required"`
	UnitPrice float64                 `json:"unitPrice"`
	Customer  models.CustomerSnapshot `json:"customer" binding:"required"`
	Payment   payment.Input           `json:"payment"`
}

// CreateBooking reserves seats and persists a booking, returning the QR token
// the customer presents at the venue.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	confirmation, err := h.Payments.Resolve(req.Payment)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "payment confirmation failed", err.Error())
		return
	}

	booking, err := h.Service.Create(c.Request.Context(), actor, bookingsvc.CreateInput{
		SessionID: req.SessionID,
		Customer:  req.Customer,
		Seats:     req.Seats,
		UnitPrice: req.UnitPrice,
		Payment:   confirmation,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), "booking failed", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// CancelBooking releases the booking's seats and marks it cancelled. Customers
// may only cancel their own bookings.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	if actor.Role == models.RoleCustomer {
		existing, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.JSONError(c, statusFor(err), "booking lookup failed", err.Error())
			return
		}
		if existing.CustomerID != actor.ID {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "")
			return
		}
	}

	booking, err := h.Service.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.JSONError(c, statusFor(err), "cancellation failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GetBooking returns a booking by id. Customers may only read their own;
// managers and admins may read any.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	booking, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, statusFor(err), "booking lookup failed", err.Error())
		return
	}
	if actor.Role == models.RoleCustomer && booking.CustomerID != actor.ID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
