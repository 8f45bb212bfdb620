package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stays/config"
	"stays/infras/jwt"
	jwtMocks "stays/infras/jwt/mocks"
	otelMocks "stays/infras/otel/mocks"
	"stays/permissions"
	"stays/shared/constant"
	gModel "stays/shared/model"
	"stays/transport/http/middleware"
)

var testPermissions = &permissions.PermissionData{
	Endpoints: []permissions.Permission{
		{Path: "/v1/rooms", Method: http.MethodGet, Skip: true},
		{Path: "/v1/bookings", Method: http.MethodPost, Optional: true},
		{Path: "/v1/bookings", Method: http.MethodGet, Permissions: []string{constant.RoleUser, constant.RoleAdmin}},
		{Path: "/v1/admin/dashboard", Method: http.MethodGet, Permissions: []string{constant.RoleAdmin}},
	},
}

// newServer mounts a handler that echoes the resolved caller.
func newServer(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	auth := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), testPermissions, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		caller := gModel.CallerFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]string{"id": caller.ID, "role": caller.Role})
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.APIKey, auth.Auth, auth.RBAC)
		r.Route("/v1", func(r chi.Router) {
			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", echo)
			})
			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", echo)
				r.Get("/", echo)
			})
			r.Get("/admin/dashboard", echo)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)
	server := newServer(t, jwtService)

	userClaims := &jwt.Claims{UserID: "user-1", Email: "guest@example.com", Role: constant.RoleUser}
	adminClaims := &jwt.Claims{UserID: "admin-1", Email: "admin@example.com", Role: constant.RoleAdmin}

	tests := []struct {
		name      string
		method    string
		path      string
		headers   map[string]string
		setupMock func()
		wantCode  int
		wantID    string
		wantError string
	}{
		{
			name:      "public route needs no token",
			method:    http.MethodGet,
			path:      "/v1/rooms",
			setupMock: func() {},
			wantCode:  http.StatusOK,
		},
		{
			name:      "optional route admits anonymous callers",
			method:    http.MethodPost,
			path:      "/v1/bookings",
			setupMock: func() {},
			wantCode:  http.StatusOK,
		},
		{
			name:    "optional route resolves a presented token",
			method:  http.MethodPost,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer user-token"},
			setupMock: func() {
				jwtService.EXPECT().ValidateToken("user-token", jwt.AccessToken).Return(userClaims, nil)
			},
			wantCode: http.StatusOK,
			wantID:   "user-1",
		},
		{
			name:      "protected route without token",
			method:    http.MethodGet,
			path:      "/v1/bookings",
			setupMock: func() {},
			wantCode:  http.StatusUnauthorized,
			wantError: "Missing authorization header",
		},
		{
			name:      "malformed header",
			method:    http.MethodGet,
			path:      "/v1/bookings",
			headers:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setupMock: func() {},
			wantCode:  http.StatusUnauthorized,
			wantError: "Invalid authorization header format",
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer old"},
			setupMock: func() {
				jwtService.EXPECT().ValidateToken("old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode:  http.StatusUnauthorized,
			wantError: "Token has expired",
		},
		{
			name:    "claims without identity",
			method:  http.MethodGet,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer blank"},
			setupMock: func() {
				jwtService.EXPECT().ValidateToken("blank", jwt.AccessToken).Return(&jwt.Claims{Role: constant.RoleUser}, nil)
			},
			wantCode:  http.StatusUnauthorized,
			wantError: "Invalid token claims",
		},
		{
			name:    "user on admin route",
			method:  http.MethodGet,
			path:    "/v1/admin/dashboard",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer user-token"},
			setupMock: func() {
				jwtService.EXPECT().ValidateToken("user-token", jwt.AccessToken).Return(userClaims, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "admin on admin route",
			method:  http.MethodGet,
			path:    "/v1/admin/dashboard",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin-token"},
			setupMock: func() {
				jwtService.EXPECT().ValidateToken("admin-token", jwt.AccessToken).Return(adminClaims, nil)
			},
			wantCode: http.StatusOK,
			wantID:   "admin-1",
		},
		{
			name:      "internal api key",
			method:    http.MethodGet,
			path:      "/v1/admin/dashboard",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			setupMock: func() {},
			wantCode:  http.StatusOK,
			wantID:    constant.ContextSystem,
		},
		{
			name:      "wrong api key",
			method:    http.MethodGet,
			path:      "/v1/admin/dashboard",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setupMock: func() {},
			wantCode:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantID, body["id"])
			}
		})
	}
}
