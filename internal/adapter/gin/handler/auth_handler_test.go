package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	domain "contacts-api/internal/domain/user"
	"contacts-api/internal/usecase/auth"
	pkgerrors "contacts-api/pkg/errors"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, in auth.RegisterRequest) (*auth.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockAuthUsecase) VerifyEmail(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *mockAuthUsecase) Login(ctx context.Context, in auth.LoginRequest) (*auth.Token, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Token), args.Error(1)
}

func (m *mockAuthUsecase) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthTestRouter(uc auth.Usecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(uc, zap.NewNop())
	r := gin.New()
	r.POST("/users/", h.Register)
	r.GET("/verify/:code", h.VerifyEmail)
	r.POST("/token", h.Login)
	return r
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("Register", mock.Anything, auth.RegisterRequest{Email: "a@example.com", Password: "secret123"}).
			Return(&auth.User{ID: 1, Email: "a@example.com", IsActive: true}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/",
			strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		newAuthTestRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"a@example.com"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("Register", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewAlreadyExistsError("user", "Email already registered"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/",
			strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		newAuthTestRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already registered")
	})

	t.Run("malformed body", func(t *testing.T) {
		uc := new(mockAuthUsecase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(`{"email":`))
		req.Header.Set("Content-Type", "application/json")
		newAuthTestRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("VerifyEmail", mock.Anything, "ABC123").Return(nil)

		w := httptest.NewRecorder()
		newAuthTestRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify/ABC123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Email successfully verified")
	})

	t.Run("unknown code", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("VerifyEmail", mock.Anything, "NOPE00").
			Return(pkgerrors.NewNotFoundError("user", "User not found"))

		w := httptest.NewRecorder()
		newAuthTestRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify/NOPE00", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "User not found")
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("Login", mock.Anything, auth.LoginRequest{Email: "a@example.com", Password: "secret123"}).
			Return(&auth.Token{AccessToken: "jwt-token", TokenType: "bearer"}, nil)

		form := url.Values{"username": {"a@example.com"}, "password": {"secret123"}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		newAuthTestRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"access_token":"jwt-token"`)
		assert.Contains(t, w.Body.String(), `"token_type":"bearer"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		uc := new(mockAuthUsecase)
		uc.On("Login", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewUnauthorizedError("Incorrect username or password"))

		form := url.Values{"username": {"a@example.com"}, "password": {"wrong"}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		newAuthTestRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Contains(t, w.Body.String(), "Incorrect username or password")
	})
}
