package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contacts-api/internal/config"
	domain "contacts-api/internal/domain/user"
	authusecase "contacts-api/internal/usecase/auth"
	"contacts-api/pkg/redis"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, in authusecase.RegisterRequest) (*authusecase.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authusecase.User), args.Error(1)
}

func (m *mockAuthUsecase) VerifyEmail(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *mockAuthUsecase) Login(ctx context.Context, in authusecase.LoginRequest) (*authusecase.Token, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authusecase.Token), args.Error(1)
}

func (m *mockAuthUsecase) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthRouter(uc authusecase.Usecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(uc, zap.NewNop()), func(c *gin.Context) {
		u := c.MustGet(CurrentUserKey).(*domain.User)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("Authenticate", mock.Anything, "good-token").
			Return(&domain.User{ID: 1, Email: "user@example.com"}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		newAuthRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user@example.com")
	})

	t.Run("missing header", func(t *testing.T) {
		uc := new(mockAuthUsecase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		newAuthRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("malformed header", func(t *testing.T) {
		uc := new(mockAuthUsecase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		newAuthRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("Authenticate", mock.Anything, "bad-token").
			Return(nil, assert.AnError)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		newAuthRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Could not validate credentials")
	})
}

func newRateLimitedRouter(t *testing.T, cfg config.RateLimitConfig) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := &redis.Client{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/contacts/", RateLimiter(cfg, client, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r, mr
}

func TestRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, MaxRequests: 3, WindowSeconds: 60}

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		r, _ := newRateLimitedRouter(t, cfg)

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts/", nil))
			require.Equal(t, http.StatusCreated, w.Code, "request %d", i+1)
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		r, mr := newRateLimitedRouter(t, cfg)

		for i := 0; i < 4; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts/", nil))
			if i == 3 {
				require.Equal(t, http.StatusTooManyRequests, w.Code)
			}
		}

		mr.FastForward(61 * time.Second)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts/", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("disabled limiter passes through", func(t *testing.T) {
		r, _ := newRateLimitedRouter(t, config.RateLimitConfig{Enabled: false})

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts/", nil))
			require.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("redis failure fails open", func(t *testing.T) {
		r, mr := newRateLimitedRouter(t, cfg)
		mr.Close()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts/", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("issues an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("honors incoming id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}
