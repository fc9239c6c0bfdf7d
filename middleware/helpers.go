package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const customerContextKey contextKey = "customer_id"

func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerContextKey, customerID)
}

// GetCustomerIDFromContext returns the signed logged_in_customer_id, if any.
func GetCustomerIDFromContext(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(customerContextKey).(string)
	return customerID, ok && customerID != ""
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": message})
}
