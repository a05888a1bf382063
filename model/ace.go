// api/model/ace.go
package model

// AccessControlEntry grants or denies one permission mask to one sid. The
// order of entries inside an ACL is significant: the first matching entry
// decides the outcome.
type AccessControlEntry struct {
	ID           string     `json:"id"`
	Sid          Sid        `json:"sid"`
	Mask         Permission `json:"mask"`
	Granting     bool       `json:"granting"`
	AuditSuccess bool       `json:"audit_success"`
	AuditFailure bool       `json:"audit_failure"`
}
