// api/service/acl_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dev-mohitbeniwal/aegis/api/aclcache"
	"github.com/dev-mohitbeniwal/aegis/api/audit"
	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
	"github.com/dev-mohitbeniwal/aegis/api/util"
)

// Provider loads ACLs from the primary store on cache misses. The primary
// store lives outside this subsystem; embedders supply an implementation.
// A (nil, nil) return means no ACL exists for the argument.
type Provider interface {
	LoadByIdentity(ctx context.Context, oid model.ObjectIdentity) (*model.Acl, error)
	LoadByID(ctx context.Context, pk model.PrimaryKey) (*model.Acl, error)
}

// IAclService is the resolution and administration surface in front of the
// ACL cache.
type IAclService interface {
	ReadByIdentity(ctx context.Context, oid model.ObjectIdentity) (*model.Acl, error)
	ReadByID(ctx context.Context, pk model.PrimaryKey) (*model.Acl, error)
	ReadAll(ctx context.Context, oids []model.ObjectIdentity) (map[model.ObjectIdentity]*model.Acl, error)
	CheckAccess(ctx context.Context, oid model.ObjectIdentity, permissions []model.Permission, sids []model.Sid) (bool, error)
	CacheAcl(ctx context.Context, acl *model.Acl) error
	Invalidate(ctx context.Context, oid model.ObjectIdentity) error
	InvalidateByID(ctx context.Context, pk model.PrimaryKey) error
	ClearCache(ctx context.Context) error
}

// AclService handles business logic for ACL resolution
type AclService struct {
	aclCache        *aclcache.AclCache
	provider        Provider
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	auditService    audit.Service
	eventBus        *util.EventBus
	flight          singleflight.Group
}

// NewAclService creates a new instance of AclService. provider may be nil,
// in which case cache misses surface as ErrAclNotFound and entries only
// enter the cache through CacheAcl.
func NewAclService(
	aclCache *aclcache.AclCache,
	provider Provider,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	auditService audit.Service,
	eventBus *util.EventBus,
) *AclService {
	service := &AclService{
		aclCache:        aclCache,
		provider:        provider,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		auditService:    auditService,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe(util.EventAclChanged, service.handleAclChanged)
	eventBus.Subscribe(util.EventAclDeleted, service.handleAclDeleted)

	return service
}

// handleAclChanged drops the cached entry for an ACL that changed
// upstream so the next read resolves the fresh version.
func (s *AclService) handleAclChanged(ctx context.Context, event util.Event) error {
	oid, ok := event.Payload.(model.ObjectIdentity)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Acl changed event received", zap.String("objectIdentity", oid.String()))
	if err := s.aclCache.EvictByIdentity(ctx, oid); err != nil {
		logger.Error("Failed to evict changed acl", zap.Error(err), zap.String("objectIdentity", oid.String()))
		return err
	}
	return nil
}

// handleAclDeleted drops the cached entry for an ACL deleted upstream.
func (s *AclService) handleAclDeleted(ctx context.Context, event util.Event) error {
	pk, ok := event.Payload.(model.PrimaryKey)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Acl deleted event received", zap.Int64("aclID", int64(pk)))
	if err := s.aclCache.EvictByID(ctx, pk); err != nil {
		logger.Error("Failed to evict deleted acl", zap.Error(err), zap.Int64("aclID", int64(pk)))
		return err
	}
	return nil
}

// ReadByIdentity returns the ACL protecting the given object, consulting
// the cache first and falling back to the provider. Concurrent misses for
// the same identity share one provider load.
func (s *AclService) ReadByIdentity(ctx context.Context, oid model.ObjectIdentity) (*model.Acl, error) {
	if err := s.validationUtil.ValidateObjectIdentity(oid); err != nil {
		return nil, aegis_errors.ErrInvalidObjectIdentity
	}

	acl, err := s.aclCache.FetchByIdentity(ctx, oid)
	if err != nil {
		return nil, err
	}
	if acl != nil {
		return acl, nil
	}

	value, err, _ := s.flight.Do(oid.CacheKey(), func() (interface{}, error) {
		// Another goroutine may have populated the cache while this call
		// waited its turn.
		if acl, err := s.aclCache.FetchByIdentity(ctx, oid); err != nil || acl != nil {
			return acl, err
		}
		if s.provider == nil {
			return nil, aegis_errors.ErrAclNotFound
		}
		loaded, err := s.provider.LoadByIdentity(ctx, oid)
		if err != nil {
			logger.Error("Error loading acl", zap.Error(err), zap.String("objectIdentity", oid.String()))
			return nil, fmt.Errorf("failed to load acl: %w", err)
		}
		if loaded == nil {
			return nil, aegis_errors.ErrAclNotFound
		}
		if err := s.aclCache.Store(ctx, loaded); err != nil {
			logger.Warn("Failed to cache loaded acl", zap.Error(err), zap.String("objectIdentity", oid.String()))
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*model.Acl), nil
}

// ReadByID returns the ACL with the given primary key, consulting the
// cache first and falling back to the provider.
func (s *AclService) ReadByID(ctx context.Context, pk model.PrimaryKey) (*model.Acl, error) {
	if pk == 0 {
		return nil, aegis_errors.ErrInvalidPrimaryKey
	}

	acl, err := s.aclCache.FetchByID(ctx, pk)
	if err != nil {
		return nil, err
	}
	if acl != nil {
		return acl, nil
	}

	value, err, _ := s.flight.Do(pk.CacheKey(), func() (interface{}, error) {
		if acl, err := s.aclCache.FetchByID(ctx, pk); err != nil || acl != nil {
			return acl, err
		}
		if s.provider == nil {
			return nil, aegis_errors.ErrAclNotFound
		}
		loaded, err := s.provider.LoadByID(ctx, pk)
		if err != nil {
			logger.Error("Error loading acl", zap.Error(err), zap.Int64("aclID", int64(pk)))
			return nil, fmt.Errorf("failed to load acl: %w", err)
		}
		if loaded == nil {
			return nil, aegis_errors.ErrAclNotFound
		}
		if err := s.aclCache.Store(ctx, loaded); err != nil {
			logger.Warn("Failed to cache loaded acl", zap.Error(err), zap.Int64("aclID", int64(pk)))
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*model.Acl), nil
}

// ReadAll resolves a batch of identities concurrently. Identities without
// an ACL are omitted from the result; any other failure aborts the batch.
func (s *AclService) ReadAll(ctx context.Context, oids []model.ObjectIdentity) (map[model.ObjectIdentity]*model.Acl, error) {
	results := make(map[model.ObjectIdentity]*model.Acl, len(oids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, oid := range oids {
		oid := oid
		g.Go(func() error {
			acl, err := s.ReadByIdentity(ctx, oid)
			if err == aegis_errors.ErrAclNotFound {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			results[oid] = acl
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckAccess resolves the ACL for the object and asks it whether any of
// the requested permissions is granted to any of the presented sids.
func (s *AclService) CheckAccess(ctx context.Context, oid model.ObjectIdentity, permissions []model.Permission, sids []model.Sid) (bool, error) {
	if len(permissions) == 0 {
		return false, fmt.Errorf("at least one permission is required")
	}
	if len(sids) == 0 {
		return false, fmt.Errorf("at least one sid is required")
	}

	acl, err := s.ReadByIdentity(ctx, oid)
	if err != nil {
		return false, err
	}
	return acl.IsGranted(ctx, permissions, sids, false)
}

// CacheAcl validates the ACL and writes it, with its whole parent chain,
// into the cache.
func (s *AclService) CacheAcl(ctx context.Context, acl *model.Acl) error {
	if err := s.validationUtil.ValidateAcl(acl); err != nil {
		return fmt.Errorf("%w: %v", aegis_errors.ErrInvalidAclData, err)
	}

	if err := s.aclCache.Store(ctx, acl); err != nil {
		logger.Error("Error caching acl", zap.Error(err), zap.Int64("aclID", int64(acl.ID)))
		return err
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, util.EventAclCached, acl.ObjectIdentity)

	if err := s.notificationSvc.NotifyAclChange(ctx, "cached", acl.ObjectIdentity, acl.ID); err != nil {
		logger.Warn("Failed to send acl cache notification", zap.Error(err), zap.Int64("aclID", int64(acl.ID)))
	}
	s.recordAudit(ctx, audit.ActionAclCached, acl.ObjectIdentity, acl.ID)

	logger.Info("Acl cached successfully",
		zap.Int64("aclID", int64(acl.ID)),
		zap.String("objectIdentity", acl.ObjectIdentity.String()))
	return nil
}

// Invalidate removes the cached entry for the given object identity.
func (s *AclService) Invalidate(ctx context.Context, oid model.ObjectIdentity) error {
	if err := s.aclCache.EvictByIdentity(ctx, oid); err != nil {
		logger.Error("Error invalidating acl", zap.Error(err), zap.String("objectIdentity", oid.String()))
		return err
	}

	s.eventBus.Publish(ctx, util.EventAclEvicted, oid)
	if err := s.notificationSvc.NotifyAclChange(ctx, "evicted", oid, 0); err != nil {
		logger.Warn("Failed to send acl eviction notification", zap.Error(err), zap.String("objectIdentity", oid.String()))
	}
	s.recordAudit(ctx, audit.ActionAclEvicted, oid, 0)

	logger.Info("Acl invalidated", zap.String("objectIdentity", oid.String()))
	return nil
}

// InvalidateByID removes the cached entry with the given primary key.
func (s *AclService) InvalidateByID(ctx context.Context, pk model.PrimaryKey) error {
	if err := s.aclCache.EvictByID(ctx, pk); err != nil {
		logger.Error("Error invalidating acl", zap.Error(err), zap.Int64("aclID", int64(pk)))
		return err
	}

	s.eventBus.Publish(ctx, util.EventAclEvicted, pk)
	s.recordAudit(ctx, audit.ActionAclEvicted, model.ObjectIdentity{}, pk)

	logger.Info("Acl invalidated", zap.Int64("aclID", int64(pk)))
	return nil
}

// ClearCache drops every cached entry.
func (s *AclService) ClearCache(ctx context.Context) error {
	if err := s.aclCache.Clear(ctx); err != nil {
		logger.Error("Error clearing acl cache", zap.Error(err))
		return err
	}

	s.eventBus.Publish(ctx, util.EventCacheCleared, time.Now().UTC())
	if err := s.notificationSvc.NotifyCacheCleared(ctx); err != nil {
		logger.Warn("Failed to send cache clear notification", zap.Error(err))
	}
	s.recordAudit(ctx, audit.ActionCacheCleared, model.ObjectIdentity{}, 0)

	logger.Info("Acl cache cleared")
	return nil
}

// recordAudit writes an audit event and logs instead of failing the
// calling operation when the trail is unavailable.
func (s *AclService) recordAudit(ctx context.Context, action string, oid model.ObjectIdentity, pk model.PrimaryKey) {
	details, _ := json.Marshal(map[string]string{"source": "acl_service"})
	event := audit.Event{
		Timestamp:  time.Now().UTC(),
		Actor:      model.PrincipalFrom(ctx),
		Action:     action,
		ObjectType: oid.Type,
		ObjectID:   oid.ID,
		AclID:      int64(pk),
		Details:    details,
	}
	if err := s.auditService.Record(ctx, event); err != nil {
		logger.Warn("Failed to record audit event", zap.Error(err), zap.String("action", action))
	}
}

var _ IAclService = (*AclService)(nil)
