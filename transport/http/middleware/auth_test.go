package middleware_test

import (
	"context"
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/otel/mocks"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const permissionsJSON = `{
  "skip": false,
  "endpoints": [
    {"path": "/v1/rooms", "method": "GET", "capability": "rooms.read"},
    {"path": "/v1/rooms", "method": "POST", "capability": "rooms.manage"},
    {"path": "/v1/rooms/{id}/images/{image}/set-primary", "method": "POST", "capability": "room_images.manage"},
    {"path": "/v1/status", "method": "GET", "skip": true}
  ]
}`

func newServer(t *testing.T) (http.Handler, jwt.JWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "hotel"
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "front-desk-secret"
	cfg.JWT.AccessExpireMin = 15

	data, err := permissions.Parse([]byte(permissionsJSON))
	require.NoError(t, err)

	jwtService := jwt.New(cfg, mocks.NewOtel())
	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), data, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		w.Header().Set("X-User", user)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Group(func(protected chi.Router) {
		protected.Use(authRole.APIKey)
		protected.Use(authRole.Auth)
		protected.Use(authRole.RBAC)

		protected.Route("/v1", func(v1 chi.Router) {
			v1.Route("/rooms", func(rooms chi.Router) {
				rooms.Get("/", ok)
				rooms.Post("/", ok)
			})
			v1.Post("/rooms/{id}/images/{image}/set-primary", ok)
			v1.Get("/status", ok)
		})
	})

	return router, jwtService
}

func TestAuthRole(t *testing.T) {
	router, jwtService := newServer(t)

	token := func(role string) string {
		signed, err := jwtService.GenerateAccessToken(context.Background(), "user-"+role, role+"@hotel.test", role)
		require.NoError(t, err)

		return "Bearer " + signed
	}

	tests := []struct {
		name     string
		method   string
		path     string
		auth     string
		apiKey   string
		wantCode int
		wantUser string
	}{
		{name: "missing token", method: http.MethodGet, path: "/v1/rooms", wantCode: http.StatusUnauthorized},
		{name: "malformed token", method: http.MethodGet, path: "/v1/rooms", auth: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "staff reads rooms", method: http.MethodGet, path: "/v1/rooms", auth: token("staff"), wantCode: http.StatusOK, wantUser: "user-staff"},
		{name: "staff cannot create rooms", method: http.MethodPost, path: "/v1/rooms", auth: token("staff"), wantCode: http.StatusForbidden},
		{name: "manager creates rooms", method: http.MethodPost, path: "/v1/rooms/", auth: token("manager"), wantCode: http.StatusOK},
		{name: "unknown role", method: http.MethodGet, path: "/v1/rooms", auth: token("guest"), wantCode: http.StatusForbidden},
		{
			name:     "receptionist cannot change images",
			method:   http.MethodPost,
			path:     "/v1/rooms/1/images/2/set-primary",
			auth:     token("receptionist"),
			wantCode: http.StatusForbidden,
		},
		{name: "api key skips token", method: http.MethodPost, path: "/v1/rooms", apiKey: "internal-key", wantCode: http.StatusOK, wantUser: "internal"},
		{name: "wrong api key", method: http.MethodGet, path: "/v1/rooms", apiKey: "guess", wantCode: http.StatusForbidden},
		{name: "skipped route", method: http.MethodGet, path: "/v1/status", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)

			if tt.auth != "" {
				req.Header.Set(constant.RequestHeaderAuthorization, tt.auth)
			}

			if tt.apiKey != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, rec.Header().Get("X-User"))
			}
		})
	}
}
