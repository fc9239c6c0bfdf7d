package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	signatureParam  = "signature"
	customerIDParam = "logged_in_customer_id"
)

// SignatureMessage builds the signed string: every parameter except
// signature as key=value, keys sorted, no separator between pairs.
// Repeated values are joined with a comma.
func SignatureMessage(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == signatureParam {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(params[k], ","))
	}
	return b.String()
}

// Sign returns the hex HMAC-SHA-256 of the parameters.
func Sign(secret []byte, params url.Values) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(SignatureMessage(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether params carry a valid signature.
// A missing signature is rejected without computing anything.
func VerifySignature(secret []byte, params url.Values) bool {
	provided := params.Get(signatureParam)
	if provided == "" {
		return false
	}
	expected := Sign(secret, params)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// VerifyProxySignature rejects requests whose query string is not signed
// with secret, and stores the signed customer id in the request context.
func VerifyProxySignature(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			if !VerifySignature(secret, query) {
				logger.WarnContext(r.Context(), "invalid proxy signature",
					slog.String("path", r.URL.Path), slog.String("remote_addr", r.RemoteAddr))
				writeJSONError(w, http.StatusUnauthorized, "Invalid signature")
				return
			}
			ctx := r.Context()
			if customerID := strings.TrimSpace(query.Get(customerIDParam)); customerID != "" {
				ctx = WithCustomerID(ctx, customerID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
