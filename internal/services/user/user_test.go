package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

const testUID = "0d9a4377-50a5-4f69-9e15-b3e1a1aa2d01"

func TestGet_ReturnsPublicFieldsOnly(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo)

	repo.On("GetUser", mock.Anything, testUID).Return(&models.User{
		UID:          testUID,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now(),
	}, nil)

	user, err := svc.Get(context.Background(), testUID)
	require.NoError(t, err)
	assert.Equal(t, testUID, user.UID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestGet_InvalidUID(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo)

	_, err := svc.Get(context.Background(), "not-a-uuid")

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Resource not found!", appErr.Message)
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestGet_UnknownUser(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo)

	repo.On("GetUser", mock.Anything, testUID).Return(nil, storage.ErrUserNotFound)

	_, err := svc.Get(context.Background(), testUID)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestList(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo)

	repo.On("ListUsers", mock.Anything, 20, 0).Return([]*models.User{
		{UID: "uid-1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash1"},
		{UID: "uid-2", Name: "Bob", Email: "bob@example.com", PasswordHash: "hash2"},
	}, nil)

	users, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "bob@example.com", users[1].Email)
}

func TestList_Empty(t *testing.T) {
	repo := new(RepoMock)
	svc := NewUserService(repo)

	repo.On("ListUsers", mock.Anything, 20, 0).Return([]*models.User{}, nil)

	users, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}
