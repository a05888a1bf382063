// api/aclcache/cache_test.go
package aclcache_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/aegis/api/aclcache"
	"github.com/dev-mohitbeniwal/aegis/api/cache"
	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
	aegis_mock "github.com/dev-mohitbeniwal/aegis/api/test/mock"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

type stubAuthzStrategy struct{}

func (*stubAuthzStrategy) SecurityCheck(context.Context, *model.Acl, model.ChangeType) error {
	return nil
}

type stubGrantingStrategy struct{}

func (*stubGrantingStrategy) IsGranted(context.Context, *model.Acl, []model.Permission, []model.Sid, bool) (bool, error) {
	return false, nil
}

// recordingMetrics counts adapter signals for assertions.
type recordingMetrics struct {
	hits, misses, stores, evicts, clears int
}

func (m *recordingMetrics) Hit()     { m.hits++ }
func (m *recordingMetrics) Miss()    { m.misses++ }
func (m *recordingMetrics) Stored()  { m.stores++ }
func (m *recordingMetrics) Evicted() { m.evicts++ }
func (m *recordingMetrics) Cleared() { m.clears++ }

func newTestCache(t *testing.T) (*aclcache.AclCache, *stubAuthzStrategy, *stubGrantingStrategy) {
	t.Helper()
	store, err := cache.NewMemoryStore(64)
	require.NoError(t, err)
	authz := &stubAuthzStrategy{}
	granting := &stubGrantingStrategy{}
	return aclcache.New(store, authz, granting), authz, granting
}

func sampleAcl(id int64, objectID string) *model.Acl {
	acl := model.NewAcl(
		model.PrimaryKey(id),
		model.NewObjectIdentity("document", objectID),
		model.PrincipalSid("alice"),
		nil, nil,
	)
	acl.Entries = []model.AccessControlEntry{
		{ID: "ace-1", Sid: model.PrincipalSid("bob"), Mask: model.PermissionRead, Granting: true},
	}
	return acl
}

func TestNewRequiresCollaborators(t *testing.T) {
	store, err := cache.NewMemoryStore(8)
	require.NoError(t, err)

	assert.Panics(t, func() { aclcache.New(nil, &stubAuthzStrategy{}, &stubGrantingStrategy{}) })
	assert.Panics(t, func() { aclcache.New(store, nil, &stubGrantingStrategy{}) })
	assert.Panics(t, func() { aclcache.New(store, &stubAuthzStrategy{}, nil) })
}

func TestStoreAndFetchByBothKeys(t *testing.T) {
	ctx := context.Background()
	aclCache, _, _ := newTestCache(t)

	acl := sampleAcl(100, "doc-1")
	require.NoError(t, aclCache.Store(ctx, acl))

	byIdentity, err := aclCache.FetchByIdentity(ctx, acl.ObjectIdentity)
	require.NoError(t, err)
	require.NotNil(t, byIdentity)

	byID, err := aclCache.FetchByID(ctx, acl.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	for _, fetched := range []*model.Acl{byIdentity, byID} {
		assert.Equal(t, acl.ID, fetched.ID)
		assert.Equal(t, acl.ObjectIdentity, fetched.ObjectIdentity)
		assert.Equal(t, acl.Owner, fetched.Owner)
		assert.Equal(t, acl.Entries, fetched.Entries)
	}
}

func TestStoreCachesAncestorChain(t *testing.T) {
	ctx := context.Background()
	aclCache, _, _ := newTestCache(t)

	grandparent := sampleAcl(3, "grand")
	parent := sampleAcl(2, "parent")
	parent.Parent = grandparent
	child := sampleAcl(1, "child")
	child.Parent = parent
	child.InheritParent = true

	require.NoError(t, aclCache.Store(ctx, child))

	// Every node on the chain is an entry in its own right, under both keys.
	for _, node := range []*model.Acl{child, parent, grandparent} {
		byIdentity, err := aclCache.FetchByIdentity(ctx, node.ObjectIdentity)
		require.NoError(t, err)
		require.NotNil(t, byIdentity, "expected %s cached under identity", node.ObjectIdentity)

		byID, err := aclCache.FetchByID(ctx, node.ID)
		require.NoError(t, err)
		require.NotNil(t, byID, "expected acl %d cached under primary key", node.ID)
	}

	fetched, err := aclCache.FetchByIdentity(ctx, child.ObjectIdentity)
	require.NoError(t, err)
	require.NotNil(t, fetched.Parent)
	assert.Equal(t, parent.ID, fetched.Parent.ID)
	require.NotNil(t, fetched.Parent.Parent)
	assert.Equal(t, grandparent.ID, fetched.Parent.Parent.ID)
	assert.True(t, fetched.InheritParent)
}

func TestFetchRebindsStrategiesAcrossChain(t *testing.T) {
	ctx := context.Background()
	aclCache, authz, granting := newTestCache(t)

	parent := sampleAcl(2, "parent")
	child := sampleAcl(1, "child")
	child.Parent = parent

	require.NoError(t, aclCache.Store(ctx, child))

	fetched, err := aclCache.FetchByIdentity(ctx, child.ObjectIdentity)
	require.NoError(t, err)
	require.NotNil(t, fetched)

	assert.Same(t, authz, fetched.AuthorizationStrategy())
	assert.Same(t, granting, fetched.GrantingStrategy())
	require.NotNil(t, fetched.Parent)
	assert.Same(t, authz, fetched.Parent.AuthorizationStrategy())
	assert.Same(t, granting, fetched.Parent.GrantingStrategy())
}

func TestFetchMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	aclCache, _, _ := newTestCache(t)

	acl, err := aclCache.FetchByIdentity(ctx, model.NewObjectIdentity("document", "absent"))
	require.NoError(t, err)
	assert.Nil(t, acl)

	acl, err = aclCache.FetchByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, acl)
}

func TestEvictRemovesBothKeys(t *testing.T) {
	tests := []struct {
		name  string
		evict func(ctx context.Context, c *aclcache.AclCache, acl *model.Acl) error
	}{
		{
			name: "by identity",
			evict: func(ctx context.Context, c *aclcache.AclCache, acl *model.Acl) error {
				return c.EvictByIdentity(ctx, acl.ObjectIdentity)
			},
		},
		{
			name: "by primary key",
			evict: func(ctx context.Context, c *aclcache.AclCache, acl *model.Acl) error {
				return c.EvictByID(ctx, acl.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			aclCache, _, _ := newTestCache(t)

			acl := sampleAcl(7, "doc-7")
			require.NoError(t, aclCache.Store(ctx, acl))
			require.NoError(t, tt.evict(ctx, aclCache, acl))

			byIdentity, err := aclCache.FetchByIdentity(ctx, acl.ObjectIdentity)
			require.NoError(t, err)
			assert.Nil(t, byIdentity)

			byID, err := aclCache.FetchByID(ctx, acl.ID)
			require.NoError(t, err)
			assert.Nil(t, byID)
		})
	}
}

func TestEvictLeavesAncestorsCached(t *testing.T) {
	ctx := context.Background()
	aclCache, _, _ := newTestCache(t)

	parent := sampleAcl(2, "parent")
	child := sampleAcl(1, "child")
	child.Parent = parent

	require.NoError(t, aclCache.Store(ctx, child))
	require.NoError(t, aclCache.EvictByIdentity(ctx, child.ObjectIdentity))

	gone, err := aclCache.FetchByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := aclCache.FetchByIdentity(ctx, parent.ObjectIdentity)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestChildSnapshotSurvivesParentEviction(t *testing.T) {
	ctx := context.Background()
	aclCache, _, _ := newTestCache(t)

	parent := sampleAcl(2, "parent")
	child := sampleAcl(1, "child")
	child.Parent = parent
	child.InheritParent = true

	require.NoError(t, aclCache.Store(ctx, child))
	require.NoError(t, aclCache.EvictByID(ctx, parent.ID))

	// The child's snapshot embeds its ancestor chain, so evicting the
	// parent's own entries does not sever the child's view of it.
	fetched, err := aclCache.FetchByIdentity(ctx, child.ObjectIdentity)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.NotNil(t, fetched.Parent)
	assert.Equal(t, parent.ID, fetched.Parent.ID)
}

func TestEvictAbsentEntryIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := new(aegis_mock.MockStore)
	store.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)

	aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{})

	require.NoError(t, aclCache.EvictByIdentity(ctx, model.NewObjectIdentity("document", "absent")))
	require.NoError(t, aclCache.EvictByID(ctx, 42))

	store.AssertNotCalled(t, "Evict", mock.Anything, mock.Anything)
}

func TestInvalidArgumentsFailBeforeCacheAccess(t *testing.T) {
	selfCycle := sampleAcl(1, "a")
	selfCycle.Parent = selfCycle

	a := sampleAcl(1, "a")
	b := sampleAcl(2, "b")
	a.Parent = b
	b.Parent = a

	zeroIdentity := sampleAcl(3, "c")
	zeroIdentity.ObjectIdentity = model.ObjectIdentity{}

	zeroKey := sampleAcl(4, "d")
	zeroKey.ID = 0

	midChainBad := sampleAcl(5, "e")
	midChainBad.Parent = zeroKey

	tests := []struct {
		name    string
		run     func(ctx context.Context, c *aclcache.AclCache) error
		wantErr error
	}{
		{
			name:    "store nil acl",
			run:     func(ctx context.Context, c *aclcache.AclCache) error { return c.Store(ctx, nil) },
			wantErr: aegis_errors.ErrNilAcl,
		},
		{
			name:    "store zero identity",
			run:     func(ctx context.Context, c *aclcache.AclCache) error { return c.Store(ctx, zeroIdentity) },
			wantErr: aegis_errors.ErrInvalidObjectIdentity,
		},
		{
			name:    "store zero primary key",
			run:     func(ctx context.Context, c *aclcache.AclCache) error { return c.Store(ctx, zeroKey) },
			wantErr: aegis_errors.ErrInvalidPrimaryKey,
		},
		{
			name:    "store invalid ancestor",
			run:     func(ctx context.Context, c *aclcache.AclCache) error { return c.Store(ctx, midChainBad) },
			wantErr: aegis_errors.ErrInvalidPrimaryKey,
		},
		{
			name:    "store self cycle",
			run:     func(ctx context.Context, c *aclcache.AclCache) error { return c.Store(ctx, selfCycle) },
			wantErr: aegis_errors.ErrCyclicParentChain,
		},
		{
			name:    "store two node cycle",
			run:     func(ctx context.Context, c *aclcache.AclCache) error { return c.Store(ctx, a) },
			wantErr: aegis_errors.ErrCyclicParentChain,
		},
		{
			name: "fetch zero identity",
			run: func(ctx context.Context, c *aclcache.AclCache) error {
				_, err := c.FetchByIdentity(ctx, model.ObjectIdentity{})
				return err
			},
			wantErr: aegis_errors.ErrInvalidObjectIdentity,
		},
		{
			name: "fetch zero primary key",
			run: func(ctx context.Context, c *aclcache.AclCache) error {
				_, err := c.FetchByID(ctx, 0)
				return err
			},
			wantErr: aegis_errors.ErrInvalidPrimaryKey,
		},
		{
			name: "evict zero identity",
			run: func(ctx context.Context, c *aclcache.AclCache) error {
				return c.EvictByIdentity(ctx, model.ObjectIdentity{})
			},
			wantErr: aegis_errors.ErrInvalidObjectIdentity,
		},
		{
			name: "evict zero primary key",
			run: func(ctx context.Context, c *aclcache.AclCache) error {
				return c.EvictByID(ctx, 0)
			},
			wantErr: aegis_errors.ErrInvalidPrimaryKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := new(aegis_mock.MockStore)
			aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{})

			err := tt.run(ctx, aclCache)
			assert.ErrorIs(t, err, tt.wantErr)

			store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "Evict", mock.Anything, mock.Anything)
		})
	}
}

func TestBackendErrorsArePropagated(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("connection refused")

	t.Run("fetch", func(t *testing.T) {
		store := new(aegis_mock.MockStore)
		store.On("Get", mock.Anything, mock.Anything).Return(nil, false, backendErr)
		aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{})

		_, err := aclCache.FetchByIdentity(ctx, model.NewObjectIdentity("document", "doc-1"))
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("store", func(t *testing.T) {
		store := new(aegis_mock.MockStore)
		store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(backendErr)
		aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{})

		err := aclCache.Store(ctx, sampleAcl(1, "doc-1"))
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("evict", func(t *testing.T) {
		acl := sampleAcl(1, "doc-1")
		payload, merr := acl.MarshalJSON()
		require.NoError(t, merr)

		store := new(aegis_mock.MockStore)
		store.On("Get", mock.Anything, mock.Anything).Return(payload, true, nil)
		store.On("Evict", mock.Anything, mock.Anything).Return(backendErr)
		aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{})

		err := aclCache.EvictByID(ctx, acl.ID)
		assert.ErrorIs(t, err, backendErr)
	})
}

func TestFetchRejectsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewMemoryStore(8)
	require.NoError(t, err)
	aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{})

	oid := model.NewObjectIdentity("document", "corrupt")
	require.NoError(t, store.Put(ctx, oid.CacheKey(), []byte("{not json")))

	_, err = aclCache.FetchByIdentity(ctx, oid)
	assert.ErrorIs(t, err, aegis_errors.ErrDecodeSnapshot)
}

func TestClearDropsEverything(t *testing.T) {
	ctx := context.Background()
	aclCache, _, _ := newTestCache(t)

	require.NoError(t, aclCache.Store(ctx, sampleAcl(1, "doc-1")))
	require.NoError(t, aclCache.Store(ctx, sampleAcl(2, "doc-2")))
	require.NoError(t, aclCache.Clear(ctx))

	for _, pk := range []model.PrimaryKey{1, 2} {
		acl, err := aclCache.FetchByID(ctx, pk)
		require.NoError(t, err)
		assert.Nil(t, acl)
	}
}

func TestMetricsSignals(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewMemoryStore(64)
	require.NoError(t, err)

	recorder := &recordingMetrics{}
	aclCache := aclcache.New(store, &stubAuthzStrategy{}, &stubGrantingStrategy{},
		aclcache.WithMetrics(recorder))

	parent := sampleAcl(2, "parent")
	child := sampleAcl(1, "child")
	child.Parent = parent

	require.NoError(t, aclCache.Store(ctx, child))
	assert.Equal(t, 2, recorder.stores)

	_, err = aclCache.FetchByIdentity(ctx, child.ObjectIdentity)
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.hits)

	_, err = aclCache.FetchByIdentity(ctx, model.NewObjectIdentity("document", "absent"))
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.misses)

	require.NoError(t, aclCache.EvictByID(ctx, child.ID))
	assert.Equal(t, 1, recorder.evicts)

	require.NoError(t, aclCache.Clear(ctx))
	assert.Equal(t, 1, recorder.clears)
}
