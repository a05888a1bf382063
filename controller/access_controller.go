// api/controller/access_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	"github.com/dev-mohitbeniwal/aegis/api/model"
	"github.com/dev-mohitbeniwal/aegis/api/service"
	"github.com/dev-mohitbeniwal/aegis/api/util"
)

type AccessController struct {
	aclService service.IAclService
}

func NewAccessController(aclService service.IAclService) *AccessController {
	return &AccessController{
		aclService: aclService,
	}
}

// AccessCheckRequest asks whether any of the sids holds any of the named
// permissions on the object.
type AccessCheckRequest struct {
	ObjectType  string      `json:"object_type" binding:"required"`
	ObjectID    string      `json:"object_id" binding:"required"`
	Sids        []model.Sid `json:"sids" binding:"required"`
	Permissions []string    `json:"permissions" binding:"required"`
}

type AccessDecision struct {
	Effect string `json:"effect"`
	Reason string `json:"reason,omitempty"`
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.POST("/check", ac.CheckAccess)
	}
}

// CheckAccess endpoint
func (ac *AccessController) CheckAccess(c *gin.Context) {
	var request AccessCheckRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access check request", err)
		return
	}

	permissions := make([]model.Permission, 0, len(request.Permissions))
	for _, name := range request.Permissions {
		permission, ok := model.ParsePermission(name)
		if !ok {
			util.RespondWithError(c, http.StatusBadRequest, "Unknown permission: "+name, nil)
			return
		}
		permissions = append(permissions, permission)
	}

	oid := model.NewObjectIdentity(request.ObjectType, request.ObjectID)
	granted, err := ac.aclService.CheckAccess(c.Request.Context(), oid, permissions, request.Sids)
	if err != nil {
		switch {
		case errors.Is(err, aegis_errors.ErrUnresolvablePermission):
			c.JSON(http.StatusOK, AccessDecision{Effect: "deny", Reason: "no matching ace"})
		case errors.Is(err, aegis_errors.ErrAclNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Acl not found", err)
		case errors.Is(err, aegis_errors.ErrInvalidObjectIdentity):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid object identity", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to check access", err)
		}
		return
	}

	if granted {
		c.JSON(http.StatusOK, AccessDecision{Effect: "allow"})
		return
	}
	c.JSON(http.StatusOK, AccessDecision{Effect: "deny", Reason: "explicitly denied"})
}
