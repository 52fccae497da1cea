// Package token provides structural checks over opaque bearer tokens.
// None of this is a trust boundary: signatures and expiry are validated
// server-side, these helpers only drive client-side UX decisions.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// IsValid reports whether the token looks like a three-segment JWT.
// It does not check the signature or expiry.
func IsValid(tok string) bool {
	if tok == "" {
		return false
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Payload best-effort decodes the claims segment. Returns nil on any
// malformed input, never an error.
func Payload(tok string) map[string]any {
	if !IsValid(tok) {
		return nil
	}
	seg := strings.Split(tok, ".")[1]
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
	if err != nil {
		return nil
	}
	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil
	}
	return claims
}

// Exp returns the exp claim as unix seconds, if present.
func Exp(tok string) (int64, bool) {
	claims := Payload(tok)
	if claims == nil {
		return 0, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0, false
	}
	return int64(exp), true
}

// ExpiringSoon reports whether the token expires within the threshold.
// False when exp is absent, already in the past, or further away.
func ExpiringSoon(tok string, threshold time.Duration) bool {
	exp, ok := Exp(tok)
	if !ok {
		return false
	}
	left := exp - time.Now().Unix()
	return left > 0 && left < int64(threshold.Seconds())
}
