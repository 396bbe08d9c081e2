package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/logging"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func mustMakeJWT(t *testing.T, secret string, sub interface{}, role string, exp time.Time, signingMethod jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}

	s, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runRequest(t *testing.T, e *echo.Echo, method string, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var r errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r
}

func newProtectedEcho(cfg config.Config, mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		userID, _ := c.Get(CtxUserIDKey).(int64)
		role, _ := c.Get(CtxUserRoleKey).(string)
		return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
	}, mws...)
	return e
}

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty token", "Bearer  "},
		{"bad signature", "Bearer " + mustMakeJWT(t, "wrong-secret", 1, "USER", future, jwt.SigningMethodHS256)},
		{"wrong alg", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "USER", future, jwt.SigningMethodHS512)},
		{"expired", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "USER", time.Now().Add(-time.Minute), jwt.SigningMethodHS256)},
		{"unknown role", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "ROOT", future, jwt.SigningMethodHS256)},
		{"zero sub", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 0, "USER", future, jwt.SigningMethodHS256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newProtectedEcho(cfg, AuthJWT(cfg))

			rec := runRequest(t, e, http.MethodGet, "/protected", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeError(t, rec).Error)
		})
	}
}

// 正常：ctxに値が入る
func TestAuthJWT_Success_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(cfg, AuthJWT(cfg))

	for _, sub := range []interface{}{123, "123"} {
		raw := mustMakeJWT(t, cfg.JWTSecret, sub, "USER", time.Now().Add(time.Hour), jwt.SigningMethodHS256)

		rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
		require.Equal(t, http.StatusOK, rec.Code)

		var body mwOKResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, int64(123), body.UserID)
		assert.Equal(t, "USER", body.Role)
	}
}

func TestAdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(cfg, AuthJWT(cfg), AdminRoleGuard())
	future := time.Now().Add(time.Hour)

	user := mustMakeJWT(t, cfg.JWTSecret, 1, "USER", future, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeError(t, rec).Error)

	admin := mustMakeJWT(t, cfg.JWTSecret, 2, "ADMIN", future, jwt.SigningMethodHS256)
	rec = runRequest(t, e, http.MethodGet, "/protected", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// AuthJWT無しでGuardだけ => 401
func TestAdminRoleGuard_MissingContext(t *testing.T) {
	e := newProtectedEcho(config.Config{}, AdminRoleGuard())

	rec := runRequest(t, e, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "info", "json")

	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	//クライアントのrequest idはそのまま返す
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "abc-123", entry["request_id"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(200), entry["status"])

	//無ければ生成。エラーはstatusに反映される
	buf.Reset()
	rec = runRequest(t, e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	entry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "warning", entry["level"])
}
