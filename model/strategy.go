// api/model/strategy.go
package model

import "context"

// ChangeType classifies structural mutations of an ACL for authorization.
type ChangeType int

const (
	ChangeGeneral ChangeType = iota
	ChangeAuditing
	ChangeOwnership
)

func (c ChangeType) String() string {
	switch c {
	case ChangeGeneral:
		return "general"
	case ChangeAuditing:
		return "auditing"
	case ChangeOwnership:
		return "ownership"
	default:
		return "unknown"
	}
}

// AuthorizationStrategy decides whether the acting principal may apply a
// given kind of change to an ACL. The actor is read from the context, see
// WithActor.
type AuthorizationStrategy interface {
	SecurityCheck(ctx context.Context, acl *Acl, change ChangeType) error
}

// PermissionGrantingStrategy decides whether an ACL grants any of the
// requested permissions to any of the presented sids.
type PermissionGrantingStrategy interface {
	IsGranted(ctx context.Context, acl *Acl, permissions []Permission, sids []Sid, administrativeMode bool) (bool, error)
}
