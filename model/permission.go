// api/model/permission.go
package model

import "strings"

// Permission is a bitmask of operations on a protected object. ACEs bind
// one mask to one sid; masks compare for exact equality during evaluation.
type Permission uint32

const (
	PermissionRead Permission = 1 << iota
	PermissionWrite
	PermissionCreate
	PermissionDelete
	PermissionAdministration
)

var permissionNames = []struct {
	mask Permission
	name string
}{
	{PermissionRead, "read"},
	{PermissionWrite, "write"},
	{PermissionCreate, "create"},
	{PermissionDelete, "delete"},
	{PermissionAdministration, "administration"},
}

// CombinePermissions merges masks into a single cumulative mask.
func CombinePermissions(perms ...Permission) Permission {
	var combined Permission
	for _, p := range perms {
		combined |= p
	}
	return combined
}

// Contains reports whether every bit of other is set in p.
func (p Permission) Contains(other Permission) bool {
	return p&other == other
}

func (p Permission) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	for _, entry := range permissionNames {
		if p.Contains(entry.mask) {
			parts = append(parts, entry.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// ParsePermission maps a permission name to its mask.
func ParsePermission(name string) (Permission, bool) {
	for _, entry := range permissionNames {
		if entry.name == strings.ToLower(name) {
			return entry.mask, true
		}
	}
	return 0, false
}
