// File: services/verification/credential.go
package verification

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedCredential indicates the scanned payload carried no token.
var ErrMalformedCredential = errors.New("malformed check-in credential")

// credentialPayload is the structured form some QR scanners deliver: the token
// wrapped in a small JSON envelope instead of the bare string.
type credentialPayload struct {
	Kind    string `json:"kind,omitempty"`
	Type    string `json:"type,omitempty"`
	Token   string `json:"token,omitempty"`
	QRToken string `json:"qrToken,omitempty"`
}

// NormalizeCredential reduces either credential form to the canonical bare
// token before lookup. Callers may pass the token itself or the JSON envelope.
func NormalizeCredential(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMalformedCredential
	}
	if !strings.HasPrefix(raw, "{") {
		return raw, nil
	}

	var payload credentialPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", ErrMalformedCredential
	}
	token := payload.Token
	if token == "" {
		token = payload.QRToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMalformedCredential
	}
	return token, nil
}
