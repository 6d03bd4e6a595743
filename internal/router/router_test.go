package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/handler"
	"fedauth/internal/router"
	"fedauth/internal/service"
	"fedauth/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(_ context.Context) error { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockSocialAuthService, *mocks.MockAuthService, *mocks.MockUserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	social := new(mocks.MockSocialAuthService)
	auth := new(mocks.MockAuthService)
	users := new(mocks.MockUserService)
	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "test"},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
	}
	r := router.Setup(cfg, auth,
		handler.NewAuthHandler(social, auth, handler.Responder{}),
		handler.NewUserHandler(users, handler.Responder{}),
		handler.NewHealthHandler(okPinger{}),
	)
	return r, social, auth, users
}

func TestRouter_SignInRoutes(t *testing.T) {
	r, social, _, _ := setupRouter(t)
	social.On("GoogleAuth", mock.Anything, service.GoogleAuthInput{Code: "g"}).
		Return(&service.SocialLoginOutput{AccessToken: "a", RefreshToken: "r"}, nil)
	social.On("AppleAuth", mock.Anything, service.AppleAuthInput{Code: "a"}).
		Return(&service.SocialLoginOutput{AccessToken: "a", RefreshToken: "r"}, nil)

	for path, body := range map[string]string{
		"/user/google_auth/": `{"code":"g"}`,
		"/user/apple_auth/":  `{"code":"a"}`,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
	social.AssertExpectations(t)
}

func TestRouter_MeRequiresBearer(t *testing.T) {
	r, _, auth, users := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/user/", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	auth.On("ValidateToken", "tok").Return(&service.Claims{UserID: 3}, nil)
	users.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, Username: "u", IsActive: true}, nil)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/user/", http.NoBody)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"u"`)
}

func TestRouter_OperationalRoutes(t *testing.T) {
	r, _, _, _ := setupRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/swagger/index.html", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "swagger is only served in development")
}
