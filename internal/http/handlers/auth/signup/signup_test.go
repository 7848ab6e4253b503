package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignUp(ctx context.Context, name, email, password string) (*authservice.Result, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservice.Result), args.Error(1)
}

func TestSignUpHandler(t *testing.T) {
	okResult := &authservice.Result{
		Token: "jwt-token",
		User:  models.PublicUser{UID: "uid-1", Name: "Alice", Email: "alice@example.com"},
	}

	tests := []struct {
		name        string
		body        string
		mockResult  *authservice.Result
		mockErr     error
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "success",
			body:        `{"name":"Alice","email":"alice@example.com","password":"password123"}`,
			mockResult:  okResult,
			wantStatus:  http.StatusCreated,
			wantSuccess: true,
			wantMessage: "User created successfully",
		},
		{
			name:        "malformed json",
			body:        `{"name":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
		{
			name:        "missing email",
			body:        `{"name":"Alice","password":"password123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Email is a required field",
		},
		{
			name:        "short password",
			body:        `{"name":"Alice","email":"alice@example.com","password":"123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Password is shorter than 6",
		},
		{
			name:        "duplicate email",
			body:        `{"name":"Alice","email":"alice@example.com","password":"password123"}`,
			mockErr:     apperror.Conflict("User already exists"),
			wantStatus:  http.StatusConflict,
			wantMessage: "User already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tt.mockResult != nil || tt.mockErr != nil {
				service.On("SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockResult, tt.mockErr)
			}

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := New(log, service, response.NewNormalizer("test"))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMessage)

			if tt.wantSuccess {
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "jwt-token", data["token"])
			}
		})
	}
}

func TestSignUpHandler_ProductionHidesStack(t *testing.T) {
	service := new(ServiceMock)
	service.On("SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.Internal("Internal Server Error"))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(log, service, response.NewNormalizer(config.EnvProduction))

	body := `{"name":"Alice","email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &keys))
	assert.NotContains(t, keys, "error")
	assert.NotContains(t, keys, "stack")
}
