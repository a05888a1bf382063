// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyAclChange(ctx context.Context, changeType string, oid model.ObjectIdentity, aclID model.PrimaryKey) error {
	// In a real implementation, you might send this to a message queue or external notification service
	switch changeType {
	case "cached":
		logger.Info("NOTIFICATION: Acl cached",
			zap.Int64("aclID", int64(aclID)),
			zap.String("objectIdentity", oid.String()))
	case "evicted":
		logger.Info("NOTIFICATION: Acl evicted",
			zap.Int64("aclID", int64(aclID)),
			zap.String("objectIdentity", oid.String()))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifyCacheCleared(ctx context.Context) error {
	logger.Info("NOTIFICATION: Acl cache cleared")
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	// Logic to notify all system administrators
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
