// api/strategy/authorization.go
package strategy

import (
	"context"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// DefaultAuthorizationStrategy guards structural changes to an ACL. A
// change is allowed when the actor owns the ACL (general and ownership
// changes only), holds the system authority configured for that change
// kind, or is granted Administration by the ACL itself.
type DefaultAuthorizationStrategy struct {
	ownershipAuthority model.Sid
	auditingAuthority  model.Sid
	generalAuthority   model.Sid
}

// NewDefaultAuthorizationStrategy configures one system authority per
// change kind.
func NewDefaultAuthorizationStrategy(ownership, auditing, general model.Sid) *DefaultAuthorizationStrategy {
	return &DefaultAuthorizationStrategy{
		ownershipAuthority: ownership,
		auditingAuthority:  auditing,
		generalAuthority:   general,
	}
}

// NewSingleAuthorityStrategy uses the same authority for all change kinds.
func NewSingleAuthorityStrategy(authority model.Sid) *DefaultAuthorizationStrategy {
	return NewDefaultAuthorizationStrategy(authority, authority, authority)
}

func (s *DefaultAuthorizationStrategy) SecurityCheck(ctx context.Context, acl *model.Acl, change model.ChangeType) error {
	sids := model.ActorFrom(ctx)
	if len(sids) == 0 {
		return aegis_errors.ErrUnauthorized
	}

	// The owner may make general and ownership changes without holding
	// any system authority.
	if change == model.ChangeGeneral || change == model.ChangeOwnership {
		for _, sid := range sids {
			if sid == acl.Owner {
				return nil
			}
		}
	}

	required := s.requiredAuthority(change)
	for _, sid := range sids {
		if sid == required {
			return nil
		}
	}

	granted, err := acl.IsGranted(ctx, []model.Permission{model.PermissionAdministration}, sids, false)
	if err == nil && granted {
		return nil
	}
	return aegis_errors.ErrNotAuthorized
}

func (s *DefaultAuthorizationStrategy) requiredAuthority(change model.ChangeType) model.Sid {
	switch change {
	case model.ChangeOwnership:
		return s.ownershipAuthority
	case model.ChangeAuditing:
		return s.auditingAuthority
	default:
		return s.generalAuthority
	}
}

var _ model.AuthorizationStrategy = (*DefaultAuthorizationStrategy)(nil)
