// api/model/identity.go
package model

import "fmt"

// ObjectIdentity identifies the domain object an ACL protects, independent
// of the ACL record itself. It is a comparable value type and safe to use
// as a map key.
type ObjectIdentity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func NewObjectIdentity(objectType, objectID string) ObjectIdentity {
	return ObjectIdentity{Type: objectType, ID: objectID}
}

// IsZero reports whether either component of the identity is missing.
func (oid ObjectIdentity) IsZero() bool {
	return oid.Type == "" || oid.ID == ""
}

// CacheKey returns the canonical cache key for the identity.
func (oid ObjectIdentity) CacheKey() string {
	return fmt.Sprintf("oid:%s:%s", oid.Type, oid.ID)
}

func (oid ObjectIdentity) String() string {
	return fmt.Sprintf("%s[%s]", oid.Type, oid.ID)
}

// PrimaryKey names an ACL record itself, as opposed to the object the
// record protects. Zero is never a valid key.
type PrimaryKey int64

// CacheKey returns the canonical cache key for the primary key.
func (pk PrimaryKey) CacheKey() string {
	return fmt.Sprintf("id:%d", pk)
}
