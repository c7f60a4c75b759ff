package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamarodfai/POS/pkg/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		h := CORS(DefaultCORSConfig())(okHandler())

		r := httptest.NewRequest(http.MethodOptions, "/menu", nil)
		r.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Session-ID")
	})

	t.Run("specific origin is echoed back", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"https://pos.example.com"}
		h := CORS(cfg)(okHandler())

		r := httptest.NewRequest(http.MethodGet, "/menu", nil)
		r.Header.Set("Origin", "https://pos.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://pos.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"https://pos.example.com"}
		h := CORS(cfg)(okHandler())

		r := httptest.NewRequest(http.MethodGet, "/menu", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(okHandler())

	do := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/menu", nil)
		r.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	third := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "1", third.Header().Get("Retry-After"))

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

type stubValidator struct {
	claims *Claims
	err    error
}

func (s stubValidator) Validate(string) (*Claims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	claims := &Claims{StaffID: "staff-1", Name: "Admin", Role: "admin"}

	t.Run("valid token passes claims through context", func(t *testing.T) {
		var got *Claims
		h := RequireAuth(stubValidator{claims: claims})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "staff-1", got.StaffID)
	})

	t.Run("missing header", func(t *testing.T) {
		h := RequireAuth(stubValidator{claims: claims})(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		h := RequireAuth(stubValidator{claims: claims})(okHandler())

		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		h := RequireAuth(stubValidator{err: errors.New("expired")})(okHandler())

		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp httputil.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	})
}

func TestRequireRole(t *testing.T) {
	auth := RequireAuth(stubValidator{claims: &Claims{StaffID: "s1", Role: "staff"}})

	t.Run("role not allowed", func(t *testing.T) {
		h := auth(RequireRole("admin")(okHandler()))

		r := httptest.NewRequest(http.MethodGet, "/reports/sales", nil)
		r.Header.Set("Authorization", "Bearer t")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role allowed", func(t *testing.T) {
		h := auth(RequireRole("admin", "staff")(okHandler()))

		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		r.Header.Set("Authorization", "Bearer t")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no claims in context", func(t *testing.T) {
		h := RequireRole("admin")(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/sales", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

func TestRequestLoggerSetsCorrelationID(t *testing.T) {
	h := RequestLogger(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	t.Run("generates an id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("propagates a provided id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/orders", nil)
		r.Header.Set("X-Correlation-ID", "corr-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, "corr-123", rec.Header().Get("X-Correlation-ID"))
	})
}
