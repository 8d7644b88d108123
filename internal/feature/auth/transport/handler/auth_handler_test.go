package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/feature/auth/usecase"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	SignupFunc func(ctx context.Context, email, password string) (*entity.User, string, error)
	LoginFunc  func(ctx context.Context, email, password string) (*entity.User, string, error)
}

func (m *mockAuthUsecase) Signup(ctx context.Context, email, password string) (*entity.User, string, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password)
	}
	return &entity.User{ID: "u1", Email: email}, "token", nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", usecase.ErrInvalidCredentials
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func performJSON(t *testing.T, h gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.POST(path, h)

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockSignupFunc func(ctx context.Context, email, password string) (*entity.User, string, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:        "success: returns token and user",
			requestBody: gin.H{"email": "a@x.com", "password": "pw1"},
			mockSignupFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return &entity.User{ID: "u1", Email: email, Password: "digest"}, "signed", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"token": "signed", "user": map[string]any{"id": "u1", "email": "a@x.com"}},
		},
		{
			name:           "failure: malformed email",
			requestBody:    gin.H{"email": "invalid-email", "password": "pw1"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:           "failure: empty password",
			requestBody:    gin.H{"email": "a@x.com", "password": ""},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:           "failure: malformed json",
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"email": "a@x.com", "password": "pw1"},
			mockSignupFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrDuplicateIdentity
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   gin.H{"error": "email already registered"},
		},
		{
			name:        "failure: usecase input error",
			requestBody: gin.H{"email": "a@x.com", "password": "pw1"},
			mockSignupFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", fmt.Errorf("%w: empty password", usecase.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid email or password format"},
		},
		{
			name:        "failure: store error is hidden",
			requestBody: gin.H{"email": "a@x.com", "password": "pw1"},
			mockSignupFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", errors.New("connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{SignupFunc: tt.mockSignupFunc}
			if tt.mockSignupFunc == nil {
				mockUC.SignupFunc = func(ctx context.Context, email, password string) (*entity.User, string, error) {
					t.Error("usecase must not be called")
					return nil, "", nil
				}
			}
			h := NewAuthHandler(mockUC)

			w := performJSON(t, h.Signup, "/signup", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var responseBody gin.H
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockLoginFunc  func(ctx context.Context, email, password string) (*entity.User, string, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "a@x.com", "password": "pw1"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return &entity.User{ID: "u1", Email: email}, "signed", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"token": "signed", "user": map[string]any{"id": "u1", "email": "a@x.com"}},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "a@x.com"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request"},
		},
		{
			name:        "failure: wrong credentials",
			requestBody: gin.H{"email": "a@x.com", "password": "wrong"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid email or password"},
		},
		{
			name:        "failure: store error",
			requestBody: gin.H{"email": "a@x.com", "password": "pw1"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", errors.New("failed to find user: timeout")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{LoginFunc: tt.mockLoginFunc}
			h := NewAuthHandler(mockUC)

			w := performJSON(t, h.Login, "/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var responseBody gin.H
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}
