package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
)

func TestNormalize_Classification(t *testing.T) {
	norm := NewNormalizer("test")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "domain error passes through verbatim",
			err:         apperror.Conflict("User already exists"),
			wantStatus:  http.StatusConflict,
			wantMessage: "User already exists",
		},
		{
			name:        "wrapped domain error is still recognized",
			err:         fmt.Errorf("services.SignIn: %w", apperror.Unauthorized("Invalid password")),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid password",
		},
		{
			name:        "invalid text representation maps to not found",
			err:         &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"},
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found!",
		},
		{
			name: "unique violation names the field and value",
			err: &pgconn.PgError{
				Code:   "23505",
				Detail: "Key (email)=(a@b.com) already exists.",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Duplicate value for email: a@b.com",
		},
		{
			name: "unique violation without detail falls back to constraint name",
			err: &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "users_email_key",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Duplicate value for users_email_key: ",
		},
		{
			name:        "unclassified error becomes internal with its text",
			err:         errors.New("connection reset by peer"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "connection reset by peer",
		},
		{
			name:        "nil error becomes generic internal",
			err:         nil,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := norm.Normalize(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestNormalize_ValidationErrors(t *testing.T) {
	norm := NewNormalizer("test")
	validate := validator.New()

	type request struct {
		Name     string `validate:"required,min=2"`
		Email    string `validate:"required,email"`
		Currency string `validate:"required,oneof=USD EUR GBP"`
	}

	err := validate.Struct(request{Name: "a", Email: "not-an-email", Currency: "RUB"})
	require.Error(t, err)

	status, resp := norm.Normalize(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Message, "field Name is shorter than 2")
	assert.Contains(t, resp.Message, "field Email must be a valid email")
	assert.Contains(t, resp.Message, "field Currency must be one of: USD EUR GBP")
	assert.Contains(t, resp.Message, ", ")
}

func TestNormalize_ProductionHidesDetails(t *testing.T) {
	err := errors.New("pq: password authentication failed")

	t.Run("development exposes error and stack", func(t *testing.T) {
		_, resp := NewNormalizer("development").Normalize(err)
		assert.NotEmpty(t, resp.Err)
		assert.NotEmpty(t, resp.Stack)
	})

	t.Run("production omits the keys entirely", func(t *testing.T) {
		_, resp := NewNormalizer(config.EnvProduction).Normalize(err)

		body, marshalErr := json.Marshal(resp)
		require.NoError(t, marshalErr)

		var keys map[string]any
		require.NoError(t, json.Unmarshal(body, &keys))
		assert.NotContains(t, keys, "error")
		assert.NotContains(t, keys, "stack")
	})
}

func TestOKHelpers(t *testing.T) {
	resp := OK("done")
	assert.True(t, resp.Success)
	assert.Equal(t, "done", resp.Message)
	assert.Nil(t, resp.Data)

	withData := OKWithData("done", map[string]string{"id": "1"})
	assert.True(t, withData.Success)
	assert.NotNil(t, withData.Data)
}
