package testutil

import (
	"context"

	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockResourceService struct {
	mock.Mock
}

func (m *MockResourceService) Dashboard(
	ctx context.Context,
	userID int64,
) (*service.Dashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockResourceService) TogglePin(
	ctx context.Context,
	userID, resourceID int64,
) (bool, error) {
	args := m.Called(ctx, userID, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResourceService) AddCustomResource(
	ctx context.Context,
	userID int64,
	name, url, desc string,
) (*store.Resource, error) {
	args := m.Called(ctx, userID, name, url, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Resource), args.Error(1)
}

func (m *MockResourceService) EditCustomResource(
	ctx context.Context,
	userID, resourceID int64,
	name, url, desc string,
) error {
	args := m.Called(ctx, userID, resourceID, name, url, desc)
	return args.Error(0)
}

func (m *MockResourceService) DeleteCustomResource(
	ctx context.Context,
	userID, resourceID int64,
) error {
	args := m.Called(ctx, userID, resourceID)
	return args.Error(0)
}

func (m *MockResourceService) ListVettedResources(ctx context.Context) ([]*store.Resource, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Resource), args.Error(1)
}

func (m *MockResourceService) ListCategories(ctx context.Context) ([]*store.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Category), args.Error(1)
}

func (m *MockResourceService) AddVettedResource(
	ctx context.Context,
	vr service.VettedResource,
) (*store.Resource, error) {
	args := m.Called(ctx, vr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Resource), args.Error(1)
}

func (m *MockResourceService) EditVettedResource(
	ctx context.Context,
	vr service.VettedResource,
) error {
	args := m.Called(ctx, vr)
	return args.Error(0)
}

func (m *MockResourceService) DeleteVettedResource(ctx context.Context, resourceID int64) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}
