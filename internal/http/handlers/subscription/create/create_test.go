package create

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

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

const testUserUID = "0d9a4377-50a5-4f69-9e15-b3e1a1aa2d01"

func newRequest(body string, withUID bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewBufferString(body))
	if withUID {
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, testUserUID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestCreateHandler(t *testing.T) {
	validBody := `{
		"name": "Netflix",
		"price": 15.99,
		"frequency": "monthly",
		"category": "entertainment",
		"payment_method": "credit_card",
		"start_date": "01-01-2024"
	}`

	created := &models.Subscription{
		ID:      "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Name:    "Netflix",
		Status:  models.StatusActive,
		UserUID: testUserUID,
	}

	tests := []struct {
		name        string
		body        string
		withUID     bool
		mockResult  *models.Subscription
		mockErr     error
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "success",
			body:        validBody,
			withUID:     true,
			mockResult:  created,
			wantStatus:  http.StatusCreated,
			wantSuccess: true,
			wantMessage: "Subscription created successfully",
		},
		{
			name:        "malformed json",
			body:        `{"name":`,
			withUID:     true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
		{
			name:        "unknown category",
			body:        `{"name":"Netflix","category":"games","payment_method":"card","start_date":"01-01-2024"}`,
			withUID:     true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Category must be one of",
		},
		{
			// Формат даты проверяет сервисный слой, а не validator.
			name:        "bad date format rejected by the service",
			body:        `{"name":"Netflix","category":"entertainment","payment_method":"card","start_date":"2024-01-01"}`,
			withUID:     true,
			mockErr:     apperror.Validation("invalid start date: 2024-01-01"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid start date: 2024-01-01",
		},
		{
			name:        "missing user uid in context",
			body:        validBody,
			withUID:     false,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized",
		},
		{
			name:        "service validation error",
			body:        validBody,
			withUID:     true,
			mockErr:     apperror.Validation("start date must be in the past"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "start date must be in the past",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tt.mockResult != nil || tt.mockErr != nil {
				service.On("Create", mock.Anything, testUserUID, mock.Anything).
					Return(tt.mockResult, tt.mockErr)
			}

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := New(log, service, response.NewNormalizer("test"))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newRequest(tt.body, tt.withUID))

			assert.Equal(t, tt.wantStatus, rr.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMessage)
		})
	}
}
