// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Actions recorded in the audit trail.
const (
	ActionAclCached     = "acl.cached"
	ActionAclEvicted    = "acl.evicted"
	ActionCacheCleared  = "cache.cleared"
	ActionAccessGranted = "access.granted"
	ActionAccessDenied  = "access.denied"
)

type Event struct {
	Timestamp  time.Time       `json:"timestamp"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	ObjectType string          `json:"object_type,omitempty"`
	ObjectID   string          `json:"object_id,omitempty"`
	AclID      int64           `json:"acl_id,omitempty"`
	Granted    *bool           `json:"granted,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}
