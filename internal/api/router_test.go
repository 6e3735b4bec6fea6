package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ketensuites/keten-backend/internal/auth"
)

func TestAllowedOrigins(t *testing.T) {
	assert.Contains(t, allowedOrigins(false, ""), "http://localhost:3000")
	assert.Equal(t,
		[]string{"https://ketensuites.com", "https://www.ketensuites.com"},
		allowedOrigins(true, " https://ketensuites.com, https://www.ketensuites.com ,"),
	)
	assert.Empty(t, allowedOrigins(true, ""))
}

func TestRouterGuardsStaffRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Config{JWTManager: auth.NewJWTManager("test-secret", time.Hour)})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/healthz", http.StatusOK},
		{"GET", "/v1/bookings", http.StatusUnauthorized},
		{"GET", "/v1/bookings/export", http.StatusUnauthorized},
		{"POST", "/v1/properties", http.StatusUnauthorized},
		{"PUT", "/v1/availability/overrides", http.StatusUnauthorized},
		{"POST", "/v1/staff/blog", http.StatusUnauthorized},
		{"GET", "/v1/staff/me", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
