// api/errors/cache_errors.go
package errors

import "errors"

var (
	ErrEncodeSnapshot = errors.New("failed to encode acl snapshot")
	ErrDecodeSnapshot = errors.New("failed to decode acl snapshot")
)
