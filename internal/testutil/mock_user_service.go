package testutil

import (
	"context"

	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(
	ctx context.Context,
	r service.Registration,
) (*store.User, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserService) Login(
	ctx context.Context,
	username, password string,
) (*store.AuthSession, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AuthSession), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockUserService) GetSession(
	ctx context.Context,
	sessionID string,
) (*store.AuthSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AuthSession), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID int64) (*store.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(
	ctx context.Context,
	userID int64,
	email, phone string,
) (*store.User, error) {
	args := m.Called(ctx, userID, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserService) ListUsersWithRoles(ctx context.Context) ([]*store.UserWithRole, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.UserWithRole), args.Error(1)
}

func (m *MockUserService) ListRoles(ctx context.Context) ([]*store.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Role), args.Error(1)
}

func (m *MockUserService) UpdateUserRole(
	ctx context.Context,
	userID int64,
	level store.Level,
	roleID *int64,
) error {
	args := m.Called(ctx, userID, level, roleID)
	return args.Error(0)
}
