package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the HMAC of the forwarded form data. An n8n
// workflow compares it against its own HMAC of the raw body to drop posts
// that bypassed the relay.
const SignatureHeader = "X-Relay-Signature-256"

// Sign returns "sha256=<hex>" over body keyed by secret. A request without
// data is signed over the empty body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
