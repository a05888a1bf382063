// api/strategy/audit.go

// Package strategy holds the process-wide collaborators every ACL is
// rebound to after a cache read: the permission granting strategy, the
// authorization strategy guarding ACL changes, and the audit hooks both
// report into.
package strategy

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/aegis/api/audit"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// AuditLogger receives the outcome of evaluations that hit an audited ACE.
// Entries opt in per outcome via their AuditSuccess and AuditFailure flags.
type AuditLogger interface {
	LogIfNeeded(ctx context.Context, granted bool, ace *model.AccessControlEntry)
}

// NoopAuditLogger drops every outcome.
type NoopAuditLogger struct{}

func (NoopAuditLogger) LogIfNeeded(context.Context, bool, *model.AccessControlEntry) {}

// ZapAuditLogger writes audited outcomes to the structured log.
type ZapAuditLogger struct{}

func (ZapAuditLogger) LogIfNeeded(_ context.Context, granted bool, ace *model.AccessControlEntry) {
	if ace == nil {
		return
	}
	fields := []zap.Field{
		zap.String("aceID", ace.ID),
		zap.String("sid", ace.Sid.String()),
		zap.String("permission", ace.Mask.String()),
	}
	if granted && ace.AuditSuccess {
		logger.Info("GRANTED due to ACE", fields...)
	} else if !granted && ace.AuditFailure {
		logger.Warn("DENIED due to ACE", fields...)
	}
}

// ServiceAuditLogger forwards audited outcomes to the audit trail. Record
// failures are logged and swallowed so auditing never blocks an access
// decision.
type ServiceAuditLogger struct {
	auditService audit.Service
}

func NewServiceAuditLogger(auditService audit.Service) *ServiceAuditLogger {
	return &ServiceAuditLogger{auditService: auditService}
}

func (l *ServiceAuditLogger) LogIfNeeded(ctx context.Context, granted bool, ace *model.AccessControlEntry) {
	if ace == nil {
		return
	}
	if granted && !ace.AuditSuccess {
		return
	}
	if !granted && !ace.AuditFailure {
		return
	}

	action := audit.ActionAccessGranted
	if !granted {
		action = audit.ActionAccessDenied
	}
	details, _ := json.Marshal(map[string]string{
		"ace_id":     ace.ID,
		"sid":        ace.Sid.String(),
		"permission": ace.Mask.String(),
	})

	event := audit.Event{
		Timestamp: time.Now().UTC(),
		Actor:     model.PrincipalFrom(ctx),
		Action:    action,
		Granted:   &granted,
		Details:   details,
	}
	if err := l.auditService.Record(ctx, event); err != nil {
		logger.Warn("Failed to record audit event", zap.Error(err), zap.String("action", action))
	}
}

var (
	_ AuditLogger = NoopAuditLogger{}
	_ AuditLogger = ZapAuditLogger{}
	_ AuditLogger = (*ServiceAuditLogger)(nil)
)
