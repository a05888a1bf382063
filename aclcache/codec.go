// api/aclcache/codec.go
package aclcache

import (
	"encoding/json"
	"fmt"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// encodeSnapshot serializes an ACL, ancestor chain included, into the
// payload form the store keeps. Strategy references are dropped by the
// model's marshaller.
func encodeSnapshot(acl *model.Acl) ([]byte, error) {
	payload, err := json.Marshal(acl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aegis_errors.ErrEncodeSnapshot, err)
	}
	return payload, nil
}

// decodeSnapshot rebuilds an ACL from a stored payload. The result is
// detached: callers must rebind strategies before handing it out.
func decodeSnapshot(payload []byte) (*model.Acl, error) {
	var acl model.Acl
	if err := json.Unmarshal(payload, &acl); err != nil {
		return nil, fmt.Errorf("%w: %v", aegis_errors.ErrDecodeSnapshot, err)
	}
	return &acl, nil
}
