package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ta-proctoring-api/internal/handler"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	"github.com/noah-isme/ta-proctoring-api/internal/service"
	"github.com/noah-isme/ta-proctoring-api/pkg/config"
)

const testSecret = "router-secret"

func newTestEngine(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1", Metrics: config.MetricsConfig{Enabled: true}}
	metrics := service.NewMetricsService()
	h := Handlers{
		Proctoring: handler.NewProctoringHandler(nil),
		Swap:       handler.NewSwapHandler(nil),
		Metrics:    handler.NewMetricsHandler(metrics, nil),
	}
	tokens := service.NewTokenService(service.TokenConfig{Secret: testSecret}, nil)
	return Setup(cfg, h, tokens, nil, metrics, nil)
}

func signToken(t *testing.T, email string, role models.UserRole) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, models.JWTClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func request(engine http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestPublicRoutes(t *testing.T) {
	engine := newTestEngine(t)

	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/ready", ""))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/metrics", ""))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestEngine(t)

	assert.Equal(t, http.StatusUnauthorized, request(engine, http.MethodGet, "/api/v1/proctoring/history", ""))
	assert.Equal(t, http.StatusUnauthorized, request(engine, http.MethodGet, "/api/v1/swap/my", "not-a-token"))
}

func TestRoleGuards(t *testing.T) {
	engine := newTestEngine(t)
	taToken := signToken(t, "ta@uni.edu", models.RoleTA)
	staffToken := signToken(t, "staff@uni.edu", models.RoleStaff)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"ta cannot list candidates", http.MethodGet, "/api/v1/proctoring/candidate-tas/exam-1", taToken},
		{"ta cannot auto assign", http.MethodPost, "/api/v1/proctoring/automatic-assignment/exam-1", taToken},
		{"ta cannot confirm", http.MethodPost, "/api/v1/proctoring/confirm-assignment/exam-1", taToken},
		{"ta cannot read history", http.MethodGet, "/api/v1/proctoring/history", taToken},
		{"ta cannot staff swap", http.MethodPost, "/api/v1/swap/staff-swap/seat-1", taToken},
		{"ta cannot list seats", http.MethodGet, "/api/v1/swap/all", taToken},
		{"ta cannot read admin history", http.MethodGet, "/api/v1/swap/admin-history", taToken},
		{"ta cannot read seat history", http.MethodGet, "/api/v1/swap/history/seat-1", taToken},
		{"staff cannot request swaps", http.MethodPost, "/api/v1/swap/request", staffToken},
		{"staff cannot respond to swaps", http.MethodPost, "/api/v1/swap/respond/swap-1", staffToken},
		{"staff has no swap inbox", http.MethodGet, "/api/v1/swap/my", staffToken},
		{"staff cannot staff swap", http.MethodPost, "/api/v1/swap/staff-swap/seat-1", staffToken},
		{"staff cannot view swap candidates", http.MethodGet, "/api/v1/swap/candidates/seat-1", staffToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, request(engine, tc.method, tc.path, tc.token))
		})
	}
}
