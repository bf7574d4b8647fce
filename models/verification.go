package models

import "time"

// Verification outcome kinds. AlreadyVerified is a successful, idempotent
// outcome, not an error: re-scanning a used QR code reports the original
// check-in instead of double-counting it.
const (
	OutcomeVerified        = "verified"
	OutcomeAlreadyVerified = "already_verified"
)

// VerificationResult is returned by the check-in protocol for both the first
// verification and every repeat, so the two paths are structurally uniform.
type VerificationResult struct {
	Outcome    string         `json:"outcome"`
	Booking    BookingSummary `json:"booking"`
	VerifiedAt time.Time      `json:"verifiedAt"`
	VerifiedBy string         `json:"verifiedBy"`
}
