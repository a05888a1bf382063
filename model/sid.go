// api/model/sid.go
package model

import "fmt"

// SidType distinguishes concrete principals from granted authorities.
type SidType string

const (
	SidPrincipal SidType = "principal"
	SidAuthority SidType = "authority"
)

// Sid is a security identity permissions are granted to: either a named
// principal or an authority such as a role.
type Sid struct {
	Type  SidType `json:"type"`
	Value string  `json:"value"`
}

func PrincipalSid(principal string) Sid {
	return Sid{Type: SidPrincipal, Value: principal}
}

func AuthoritySid(authority string) Sid {
	return Sid{Type: SidAuthority, Value: authority}
}

func (s Sid) IsZero() bool {
	return s.Type == "" || s.Value == ""
}

func (s Sid) String() string {
	return fmt.Sprintf("%s:%s", s.Type, s.Value)
}
