// api/strategy/granting.go
package strategy

import (
	"context"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// DefaultGrantingStrategy evaluates an ACL in entry order: the first ACE
// binding a requested permission mask to a presented sid decides the
// outcome, whether it grants or denies. Masks match on exact equality, so
// an entry granting read|write does not satisfy a plain read request.
type DefaultGrantingStrategy struct {
	auditLogger AuditLogger
}

func NewDefaultGrantingStrategy(auditLogger AuditLogger) *DefaultGrantingStrategy {
	if auditLogger == nil {
		auditLogger = NoopAuditLogger{}
	}
	return &DefaultGrantingStrategy{auditLogger: auditLogger}
}

func (s *DefaultGrantingStrategy) IsGranted(ctx context.Context, acl *model.Acl, permissions []model.Permission, sids []model.Sid, administrativeMode bool) (bool, error) {
	var firstRejection *model.AccessControlEntry

	for _, permission := range permissions {
	sidScan:
		for _, sid := range sids {
			for i := range acl.Entries {
				ace := &acl.Entries[i]
				if ace.Mask != permission || ace.Sid != sid {
					continue
				}
				if ace.Granting {
					if !administrativeMode {
						s.auditLogger.LogIfNeeded(ctx, true, ace)
					}
					return true, nil
				}
				// A deny entry makes this permission unsatisfiable for
				// this sid. Remember the first one for auditing and move
				// on to the next permission.
				if firstRejection == nil {
					firstRejection = ace
				}
				break sidScan
			}
		}
	}

	if firstRejection != nil {
		if !administrativeMode {
			s.auditLogger.LogIfNeeded(ctx, false, firstRejection)
		}
		return false, nil
	}

	if acl.InheritParent && acl.Parent != nil {
		return s.IsGranted(ctx, acl.Parent, permissions, sids, false)
	}

	// No matching entry anywhere on the chain.
	return false, aegis_errors.ErrUnresolvablePermission
}

var _ model.PermissionGrantingStrategy = (*DefaultGrantingStrategy)(nil)
