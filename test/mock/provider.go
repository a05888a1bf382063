// test/mock/provider.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// MockProvider is a mock implementation of service.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) LoadByIdentity(ctx context.Context, oid model.ObjectIdentity) (*model.Acl, error) {
	args := m.Called(ctx, oid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acl), args.Error(1)
}

func (m *MockProvider) LoadByID(ctx context.Context, pk model.PrimaryKey) (*model.Acl, error) {
	args := m.Called(ctx, pk)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Acl), args.Error(1)
}
