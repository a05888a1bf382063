// test/mock/acl_service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// MockAclService is a mock implementation of service.IAclService
type MockAclService struct {
	mock.Mock
}

func (m *MockAclService) ReadByIdentity(ctx context.Context, oid model.ObjectIdentity) (*model.Acl, error) {
	args := m.Called(ctx, oid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acl), args.Error(1)
}

func (m *MockAclService) ReadByID(ctx context.Context, pk model.PrimaryKey) (*model.Acl, error) {
	args := m.Called(ctx, pk)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acl), args.Error(1)
}

func (m *MockAclService) ReadAll(ctx context.Context, oids []model.ObjectIdentity) (map[model.ObjectIdentity]*model.Acl, error) {
	args := m.Called(ctx, oids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.ObjectIdentity]*model.Acl), args.Error(1)
}

func (m *MockAclService) CheckAccess(ctx context.Context, oid model.ObjectIdentity, permissions []model.Permission, sids []model.Sid) (bool, error) {
	args := m.Called(ctx, oid, permissions, sids)
	return args.Bool(0), args.Error(1)
}

func (m *MockAclService) CacheAcl(ctx context.Context, acl *model.Acl) error {
	args := m.Called(ctx, acl)
	return args.Error(0)
}

func (m *MockAclService) Invalidate(ctx context.Context, oid model.ObjectIdentity) error {
	args := m.Called(ctx, oid)
	return args.Error(0)
}

func (m *MockAclService) InvalidateByID(ctx context.Context, pk model.PrimaryKey) error {
	args := m.Called(ctx, pk)
	return args.Error(0)
}

func (m *MockAclService) ClearCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
