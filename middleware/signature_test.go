package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("hush")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSignatureMessage(t *testing.T) {
	params := url.Values{
		"shop":                  {"example.myshopify.com"},
		"logged_in_customer_id": {"42"},
		"path_prefix":           {"/apps/tracker"},
		"extra":                 {"1", "2"},
		"signature":             {"ignored"},
	}
	assert.Equal(t,
		"extra=1,2logged_in_customer_id=42path_prefix=/apps/trackershop=example.myshopify.com",
		SignatureMessage(params))
}

func TestSignMatchesHMAC(t *testing.T) {
	params := url.Values{"shop": {"a"}, "timestamp": {"1"}}
	mac := hmac.New(sha256.New, testSecret)
	mac.Write([]byte("shop=atimestamp=1"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), Sign(testSecret, params))
}

func TestVerifySignature(t *testing.T) {
	params := url.Values{"shop": {"a"}, "logged_in_customer_id": {"7"}}
	params.Set("signature", Sign(testSecret, params))
	assert.True(t, VerifySignature(testSecret, params))

	assert.False(t, VerifySignature([]byte("other"), params))

	tampered := url.Values{"shop": {"b"}, "logged_in_customer_id": {"7"}, "signature": params["signature"]}
	assert.False(t, VerifySignature(testSecret, tampered))

	assert.False(t, VerifySignature(testSecret, url.Values{"shop": {"a"}}))
}

func signedURL(params url.Values) string {
	params.Set("signature", Sign(testSecret, params))
	return "/proxy?" + params.Encode()
}

func TestVerifyProxySignatureMiddleware(t *testing.T) {
	var gotCustomer string
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCustomer, gotOK = GetCustomerIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := VerifyProxySignature(testSecret, discardLogger())(next)

	t.Run("valid with customer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, signedURL(url.Values{"logged_in_customer_id": {"42"}}), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, gotOK)
		assert.Equal(t, "42", gotCustomer)
	})

	t.Run("valid without customer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, signedURL(url.Values{"shop": {"a"}}), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("invalid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/proxy?logged_in_customer_id=42&signature=deadbeef", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, "Invalid signature", body["error"])
	})
}
