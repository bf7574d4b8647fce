// File: handlers/status.go
package handlers

import (
	"errors"
	"net/http"

	bookingRepo "playpark/database/repository/booking"
	branchRepo "playpark/database/repository/branch"
	sessionRepo "playpark/database/repository/session"
	"playpark/services/bookingsvc"
	"playpark/services/sessionsvc"
	"playpark/services/verification"
)

// statusFor maps the service-layer error taxonomy onto HTTP statuses. Unknown
// errors are treated as storage-layer faults: the request fails, persisted
// state is unchanged, and the caller decides whether to retry.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sessionRepo.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, sessionRepo.ErrInvalidCapacity):
		return http.StatusBadRequest
	case errors.Is(err, sessionRepo.ErrSessionNotFound),
		errors.Is(err, bookingRepo.ErrBookingNotFound),
		errors.Is(err, bookingRepo.ErrTokenNotFound),
		errors.Is(err, branchRepo.ErrBranchNotFound):
		return http.StatusNotFound
	case errors.Is(err, sessionRepo.ErrSessionHasBookings),
		errors.Is(err, sessionsvc.ErrSessionsHaveBookings),
		errors.Is(err, bookingRepo.ErrAlreadyCancelled):
		return http.StatusConflict
	case errors.Is(err, bookingsvc.ErrSessionInactive):
		return http.StatusNotFound
	case errors.Is(err, bookingsvc.ErrInvalidSeats),
		errors.Is(err, sessionsvc.ErrActivityNotAllowed),
		errors.Is(err, sessionsvc.ErrInvalidTemplate),
		errors.Is(err, verification.ErrMalformedCredential):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
