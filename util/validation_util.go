// api/util/validation_util.go

package util

import (
	"fmt"

	"github.com/dev-mohitbeniwal/aegis/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateAcl(acl *model.Acl) error {
	if acl == nil {
		return fmt.Errorf("acl cannot be nil")
	}
	if acl.ID == 0 {
		return fmt.Errorf("acl primary key cannot be zero")
	}
	if err := v.ValidateObjectIdentity(acl.ObjectIdentity); err != nil {
		return err
	}
	if acl.Owner.IsZero() {
		return fmt.Errorf("acl owner cannot be empty")
	}
	for i, ace := range acl.Entries {
		if err := v.ValidateAce(ace); err != nil {
			return fmt.Errorf("invalid ace at index %d: %w", i, err)
		}
	}
	// Add more validation rules as needed
	return nil
}

func (v *ValidationUtil) ValidateObjectIdentity(oid model.ObjectIdentity) error {
	if oid.Type == "" {
		return fmt.Errorf("object identity type cannot be empty")
	}
	if oid.ID == "" {
		return fmt.Errorf("object identity ID cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateAce(ace model.AccessControlEntry) error {
	if ace.Sid.IsZero() {
		return fmt.Errorf("ace sid cannot be empty")
	}
	if ace.Mask == 0 {
		return fmt.Errorf("ace permission mask cannot be zero")
	}
	if ace.Sid.Type != model.SidPrincipal && ace.Sid.Type != model.SidAuthority {
		return fmt.Errorf("ace sid type must be principal or authority")
	}
	return nil
}

func (v *ValidationUtil) ValidateSid(sid model.Sid) error {
	if sid.IsZero() {
		return fmt.Errorf("sid cannot be empty")
	}
	if sid.Type != model.SidPrincipal && sid.Type != model.SidAuthority {
		return fmt.Errorf("sid type must be principal or authority")
	}
	return nil
}
