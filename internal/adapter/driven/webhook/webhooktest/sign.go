// Package webhooktest signs payloads the way the provider does, for tests
// that drive the webhook endpoint.
package webhooktest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"
)

var Key = []byte("0123456789abcdef0123456789abcdef")

func Secret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString(Key)
}

// Signature returns the base64 HMAC-SHA256 of "{id}.{timestamp}.{body}".
func Signature(key []byte, id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(id + "." + timestamp + "."))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Headers returns a complete signed header set for body sent at the given time.
func Headers(body []byte, at time.Time) http.Header {
	ts := strconv.FormatInt(at.Unix(), 10)
	h := http.Header{}
	h.Set("webhook-id", "wh_test")
	h.Set("webhook-timestamp", ts)
	h.Set("webhook-signature", "v1,"+Signature(Key, "wh_test", ts, body))
	return h
}
