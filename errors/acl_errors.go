// api/errors/acl_errors.go
package errors

import "errors"

var (
	ErrNilAcl                 = errors.New("acl must not be nil")
	ErrInvalidObjectIdentity  = errors.New("invalid object identity")
	ErrInvalidPrimaryKey      = errors.New("invalid acl primary key")
	ErrCyclicParentChain      = errors.New("cyclic acl parent chain")
	ErrInvalidAclData         = errors.New("invalid acl data")
	ErrAclNotFound            = errors.New("acl not found")
	ErrNotAuthorized          = errors.New("principal lacks required acl permissions")
	ErrUnresolvablePermission = errors.New("unable to locate a matching ace")
	ErrStrategyNotAttached    = errors.New("acl strategies not attached")
	ErrInternalServer         = errors.New("internal server error")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidPagination      = errors.New("invalid pagination parameters")
)
