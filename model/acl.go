// api/model/acl.go
package model

import (
	"context"
	"encoding/json"
	"fmt"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
)

// Acl is a single access-control record: who owns the protected object,
// which sids hold which permissions, and which ACL (if any) it inherits
// from. The two strategy references are process-local collaborators; they
// are dropped on serialization and must be rebound on every read from a
// cache, see RebindStrategies.
type Acl struct {
	ID             PrimaryKey
	ObjectIdentity ObjectIdentity
	Owner          Sid
	Entries        []AccessControlEntry
	Parent         *Acl
	InheritParent  bool

	authz    AuthorizationStrategy
	granting PermissionGrantingStrategy
}

// NewAcl constructs an ACL with its collaborator strategies attached.
func NewAcl(id PrimaryKey, oid ObjectIdentity, owner Sid, authz AuthorizationStrategy, granting PermissionGrantingStrategy) *Acl {
	return &Acl{
		ID:             id,
		ObjectIdentity: oid,
		Owner:          owner,
		authz:          authz,
		granting:       granting,
	}
}

// RebindStrategies points the ACL at the process-local strategy instances.
// Serialized copies never carry them, so every cache read path must call
// this before handing the ACL to a caller.
func (a *Acl) RebindStrategies(authz AuthorizationStrategy, granting PermissionGrantingStrategy) {
	a.authz = authz
	a.granting = granting
}

// AuthorizationStrategy returns the attached authorization collaborator,
// or nil when the ACL is detached.
func (a *Acl) AuthorizationStrategy() AuthorizationStrategy {
	return a.authz
}

// GrantingStrategy returns the attached permission granting collaborator,
// or nil when the ACL is detached.
func (a *Acl) GrantingStrategy() PermissionGrantingStrategy {
	return a.granting
}

// IsGranted asks the attached granting strategy whether the ACL grants any
// of the requested permissions to any of the presented sids.
func (a *Acl) IsGranted(ctx context.Context, permissions []Permission, sids []Sid, administrativeMode bool) (bool, error) {
	if a.granting == nil {
		return false, aegis_errors.ErrStrategyNotAttached
	}
	return a.granting.IsGranted(ctx, a, permissions, sids, administrativeMode)
}

// InsertAce places an entry at the given position after an authorization
// check for a general change.
func (a *Acl) InsertAce(ctx context.Context, index int, ace AccessControlEntry) error {
	if err := a.securityCheck(ctx, ChangeGeneral); err != nil {
		return err
	}
	if index < 0 || index > len(a.Entries) {
		return fmt.Errorf("ace index %d out of bounds", index)
	}
	a.Entries = append(a.Entries, AccessControlEntry{})
	copy(a.Entries[index+1:], a.Entries[index:])
	a.Entries[index] = ace
	return nil
}

// UpdateAce replaces the entry at the given position.
func (a *Acl) UpdateAce(ctx context.Context, index int, ace AccessControlEntry) error {
	if err := a.securityCheck(ctx, ChangeGeneral); err != nil {
		return err
	}
	if index < 0 || index >= len(a.Entries) {
		return fmt.Errorf("ace index %d out of bounds", index)
	}
	a.Entries[index] = ace
	return nil
}

// DeleteAce removes the entry at the given position.
func (a *Acl) DeleteAce(ctx context.Context, index int) error {
	if err := a.securityCheck(ctx, ChangeGeneral); err != nil {
		return err
	}
	if index < 0 || index >= len(a.Entries) {
		return fmt.Errorf("ace index %d out of bounds", index)
	}
	a.Entries = append(a.Entries[:index], a.Entries[index+1:]...)
	return nil
}

// SetAuditing toggles success and failure auditing on the entry at the
// given position. Auditing changes require their own authority.
func (a *Acl) SetAuditing(ctx context.Context, index int, auditSuccess, auditFailure bool) error {
	if err := a.securityCheck(ctx, ChangeAuditing); err != nil {
		return err
	}
	if index < 0 || index >= len(a.Entries) {
		return fmt.Errorf("ace index %d out of bounds", index)
	}
	a.Entries[index].AuditSuccess = auditSuccess
	a.Entries[index].AuditFailure = auditFailure
	return nil
}

// SetOwner transfers ownership of the ACL.
func (a *Acl) SetOwner(ctx context.Context, owner Sid) error {
	if err := a.securityCheck(ctx, ChangeOwnership); err != nil {
		return err
	}
	a.Owner = owner
	return nil
}

// SetParent changes which ACL this one inherits from.
func (a *Acl) SetParent(ctx context.Context, parent *Acl) error {
	if err := a.securityCheck(ctx, ChangeGeneral); err != nil {
		return err
	}
	a.Parent = parent
	return nil
}

// SetEntriesInheriting toggles whether unresolved checks fall through to
// the parent ACL.
func (a *Acl) SetEntriesInheriting(ctx context.Context, inheriting bool) error {
	if err := a.securityCheck(ctx, ChangeGeneral); err != nil {
		return err
	}
	a.InheritParent = inheriting
	return nil
}

func (a *Acl) securityCheck(ctx context.Context, change ChangeType) error {
	if a.authz == nil {
		return aegis_errors.ErrStrategyNotAttached
	}
	return a.authz.SecurityCheck(ctx, a, change)
}

func (a *Acl) String() string {
	return fmt.Sprintf("Acl[id: %d; objectIdentity: %s; owner: %s; entries: %d; inheriting: %t]",
		a.ID, a.ObjectIdentity, a.Owner, len(a.Entries), a.InheritParent)
}

// aclJSON is the wire form of an Acl. The parent chain nests recursively;
// the strategy collaborators are deliberately absent.
type aclJSON struct {
	ID             PrimaryKey           `json:"id"`
	ObjectIdentity ObjectIdentity       `json:"object_identity"`
	Owner          Sid                  `json:"owner"`
	Entries        []AccessControlEntry `json:"entries,omitempty"`
	Parent         *Acl                 `json:"parent,omitempty"`
	InheritParent  bool                 `json:"inherit_parent"`
}

func (a *Acl) MarshalJSON() ([]byte, error) {
	return json.Marshal(aclJSON{
		ID:             a.ID,
		ObjectIdentity: a.ObjectIdentity,
		Owner:          a.Owner,
		Entries:        a.Entries,
		Parent:         a.Parent,
		InheritParent:  a.InheritParent,
	})
}

func (a *Acl) UnmarshalJSON(data []byte) error {
	var wire aclJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	a.ID = wire.ID
	a.ObjectIdentity = wire.ObjectIdentity
	a.Owner = wire.Owner
	a.Entries = wire.Entries
	a.Parent = wire.Parent
	a.InheritParent = wire.InheritParent
	a.authz = nil
	a.granting = nil
	return nil
}
