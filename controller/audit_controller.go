// api/controller/audit_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/aegis/api/audit"
	"github.com/dev-mohitbeniwal/aegis/api/util"
	helper_util "github.com/dev-mohitbeniwal/aegis/api/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/audit")
	{
		events.GET("/events", ac.QueryEvents)
	}
}

// QueryEvents endpoint
func (ac *AuditController) QueryEvents(c *gin.Context) {
	from, to, err := helper_util.ParseTimeRange(c.Query("from"), c.Query("to"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range", err)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	events, err := ac.auditService.QueryEvents(c.Request.Context(), from, to, c.Query("actor"), c.Query("object_id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit events", err)
		return
	}

	c.JSON(http.StatusOK, paginate(events, limit, offset))
}

func paginate(events []audit.Event, limit, offset int) []audit.Event {
	if offset >= len(events) {
		return []audit.Event{}
	}
	end := offset + limit
	if end > len(events) {
		end = len(events)
	}
	return events[offset:end]
}
