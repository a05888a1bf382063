// api/aclcache/cache.go

// Package aclcache keeps resolved ACLs in a cache under both of their
// keys. Every entry is reachable by its primary key and by the identity of
// the object it protects, ancestors are always cached as entries in their
// own right, and the two process-local strategy collaborators are rebound
// onto everything that leaves the underlying store.
package aclcache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/aegis/api/cache"
	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// AclCache is the dual-keyed adapter in front of a cache.Store.
type AclCache struct {
	store    cache.Store
	authz    model.AuthorizationStrategy
	granting model.PermissionGrantingStrategy
	metrics  Metrics
}

// Option customizes an AclCache.
type Option func(*AclCache)

// WithMetrics installs observability hooks. The default is NoopMetrics.
func WithMetrics(m Metrics) Option {
	return func(c *AclCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New constructs the adapter. The store and both strategies are mandatory
// collaborators; passing nil is a programming error.
func New(store cache.Store, authz model.AuthorizationStrategy, granting model.PermissionGrantingStrategy, opts ...Option) *AclCache {
	if store == nil {
		panic("aclcache: store must not be nil")
	}
	if authz == nil {
		panic("aclcache: authorization strategy must not be nil")
	}
	if granting == nil {
		panic("aclcache: permission granting strategy must not be nil")
	}
	c := &AclCache{
		store:    store,
		authz:    authz,
		granting: granting,
		metrics:  NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store writes the ACL and every ancestor on its parent chain into the
// cache, each under both its object identity key and its primary key.
// Ancestors go first so the cache never exposes a child whose chain was
// not written. The whole chain is validated before the first write.
func (c *AclCache) Store(ctx context.Context, acl *model.Acl) error {
	chain, err := parentChain(acl)
	if err != nil {
		return err
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if err := c.storeOne(ctx, chain[i]); err != nil {
			return err
		}
	}
	return nil
}

// parentChain collects acl and its ancestors, nearest first, validating
// each link. A repeated node means the chain loops and the ACL must be
// rejected before anything touches the cache.
func parentChain(acl *model.Acl) ([]*model.Acl, error) {
	if acl == nil {
		return nil, aegis_errors.ErrNilAcl
	}

	visited := make(map[*model.Acl]bool)
	var chain []*model.Acl
	for current := acl; current != nil; current = current.Parent {
		if visited[current] {
			return nil, aegis_errors.ErrCyclicParentChain
		}
		visited[current] = true

		if current.ObjectIdentity.IsZero() {
			return nil, aegis_errors.ErrInvalidObjectIdentity
		}
		if current.ID == 0 {
			return nil, aegis_errors.ErrInvalidPrimaryKey
		}
		chain = append(chain, current)
	}
	return chain, nil
}

func (c *AclCache) storeOne(ctx context.Context, acl *model.Acl) error {
	payload, err := encodeSnapshot(acl)
	if err != nil {
		return err
	}

	if err := c.store.Put(ctx, acl.ObjectIdentity.CacheKey(), payload); err != nil {
		return fmt.Errorf("failed to cache acl under object identity %s: %w", acl.ObjectIdentity, err)
	}
	if err := c.store.Put(ctx, acl.ID.CacheKey(), payload); err != nil {
		return fmt.Errorf("failed to cache acl under primary key %d: %w", acl.ID, err)
	}

	c.metrics.Stored()
	logger.Debug("Acl cached",
		zap.Int64("aclID", int64(acl.ID)),
		zap.String("objectIdentity", acl.ObjectIdentity.String()))
	return nil
}

// FetchByIdentity returns the cached ACL protecting the given object, or
// (nil, nil) when the cache holds no entry for it.
func (c *AclCache) FetchByIdentity(ctx context.Context, oid model.ObjectIdentity) (*model.Acl, error) {
	if oid.IsZero() {
		return nil, aegis_errors.ErrInvalidObjectIdentity
	}
	return c.fetch(ctx, oid.CacheKey())
}

// FetchByID returns the cached ACL with the given primary key, or
// (nil, nil) when the cache holds no entry for it.
func (c *AclCache) FetchByID(ctx context.Context, pk model.PrimaryKey) (*model.Acl, error) {
	if pk == 0 {
		return nil, aegis_errors.ErrInvalidPrimaryKey
	}
	return c.fetch(ctx, pk.CacheKey())
}

func (c *AclCache) fetch(ctx context.Context, key string) (*model.Acl, error) {
	payload, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read acl from cache: %w", err)
	}
	if !found {
		c.metrics.Miss()
		return nil, nil
	}

	acl, err := decodeSnapshot(payload)
	if err != nil {
		return nil, err
	}
	c.rebindChain(acl)
	c.metrics.Hit()
	return acl, nil
}

// rebindChain attaches the adapter's live strategy instances to the ACL
// and every ancestor. Snapshots never carry strategies, so a fetched chain
// is inert until this runs.
func (c *AclCache) rebindChain(acl *model.Acl) {
	visited := make(map[*model.Acl]bool)
	for current := acl; current != nil && !visited[current]; current = current.Parent {
		visited[current] = true
		current.RebindStrategies(c.authz, c.granting)
	}
}

// EvictByIdentity removes the entry protecting the given object from both
// of its keys. Ancestors stay cached. Evicting an absent entry is a no-op.
func (c *AclCache) EvictByIdentity(ctx context.Context, oid model.ObjectIdentity) error {
	if oid.IsZero() {
		return aegis_errors.ErrInvalidObjectIdentity
	}
	acl, err := c.fetch(ctx, oid.CacheKey())
	if err != nil {
		return err
	}
	return c.evict(ctx, acl)
}

// EvictByID removes the entry with the given primary key from both of its
// keys. Ancestors stay cached. Evicting an absent entry is a no-op.
func (c *AclCache) EvictByID(ctx context.Context, pk model.PrimaryKey) error {
	if pk == 0 {
		return aegis_errors.ErrInvalidPrimaryKey
	}
	acl, err := c.fetch(ctx, pk.CacheKey())
	if err != nil {
		return err
	}
	return c.evict(ctx, acl)
}

// evict resolves the companion key from the fetched entry so that one
// eviction call removes both mappings, whichever key form the caller held.
func (c *AclCache) evict(ctx context.Context, acl *model.Acl) error {
	if acl == nil {
		return nil
	}

	if err := c.store.Evict(ctx, acl.ID.CacheKey()); err != nil {
		return fmt.Errorf("failed to evict acl %d: %w", acl.ID, err)
	}
	if err := c.store.Evict(ctx, acl.ObjectIdentity.CacheKey()); err != nil {
		return fmt.Errorf("failed to evict acl for %s: %w", acl.ObjectIdentity, err)
	}

	c.metrics.Evicted()
	logger.Debug("Acl evicted",
		zap.Int64("aclID", int64(acl.ID)),
		zap.String("objectIdentity", acl.ObjectIdentity.String()))
	return nil
}

// Clear drops every cached entry.
func (c *AclCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear acl cache: %w", err)
	}
	c.metrics.Cleared()
	logger.Debug("Acl cache cleared")
	return nil
}
