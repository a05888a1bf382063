// api/controller/controllers.go
package controller

import "github.com/dev-mohitbeniwal/aegis/api/service"

type Controllers struct {
	Acl    *AclController
	Access *AccessController
	Audit  *AuditController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Acl:    NewAclController(services.Acl),
		Access: NewAccessController(services.Acl),
		Audit:  NewAuditController(services.Audit),
	}
}
