// api/service/services.go
package service

import (
	"github.com/dev-mohitbeniwal/aegis/api/aclcache"
	"github.com/dev-mohitbeniwal/aegis/api/audit"
	"github.com/dev-mohitbeniwal/aegis/api/util"
)

type Services struct {
	Acl   IAclService
	Audit audit.Service
}

func InitializeServices(
	aclCache *aclcache.AclCache,
	provider Provider,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	services := &Services{
		Acl:   NewAclService(aclCache, provider, validationUtil, notificationSvc, auditService, eventBus),
		Audit: auditService,
	}

	return services, nil
}
