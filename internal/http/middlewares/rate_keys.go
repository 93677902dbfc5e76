package middlewares

import "net/http"

// IPPathRateKey generates a key based on IP + Path (without reading body).
// Separates limits per callback endpoint so one noisy provider does not
// starve the others for the same client.
func IPPathRateKey(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}
