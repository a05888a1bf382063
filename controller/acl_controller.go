// api/controller/acl_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	"github.com/dev-mohitbeniwal/aegis/api/model"
	"github.com/dev-mohitbeniwal/aegis/api/service"
	"github.com/dev-mohitbeniwal/aegis/api/util"
)

type AclController struct {
	aclService service.IAclService
}

func NewAclController(aclService service.IAclService) *AclController {
	return &AclController{
		aclService: aclService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AclController) RegisterRoutes(r *gin.RouterGroup) {
	acls := r.Group("/acls")
	{
		acls.POST("", ac.CacheAcl)
		acls.POST("/resolve", ac.ResolveAcls)
		acls.GET("/:type/:id", ac.GetAcl)
		acls.DELETE("/:type/:id", ac.InvalidateAcl)
	}
	cache := r.Group("/cache")
	{
		cache.DELETE("/entries/:pk", ac.InvalidateAclByID)
		cache.POST("/clear", ac.ClearCache)
	}
}

// CacheAcl endpoint
func (ac *AclController) CacheAcl(c *gin.Context) {
	var acl model.Acl
	if err := c.ShouldBindJSON(&acl); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid acl data", aegis_errors.ErrInvalidAclData)
		return
	}

	if err := ac.aclService.CacheAcl(c.Request.Context(), &acl); err != nil {
		switch {
		case errors.Is(err, aegis_errors.ErrInvalidAclData),
			errors.Is(err, aegis_errors.ErrInvalidObjectIdentity),
			errors.Is(err, aegis_errors.ErrInvalidPrimaryKey),
			errors.Is(err, aegis_errors.ErrCyclicParentChain):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid acl data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to cache acl", err)
		}
		return
	}

	c.JSON(http.StatusCreated, &acl)
}

// ResolveAcls endpoint resolves a batch of object identities at once.
func (ac *AclController) ResolveAcls(c *gin.Context) {
	var request struct {
		Identities []model.ObjectIdentity `json:"identities" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid resolve request", err)
		return
	}

	acls, err := ac.aclService.ReadAll(c.Request.Context(), request.Identities)
	if err != nil {
		if errors.Is(err, aegis_errors.ErrInvalidObjectIdentity) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid object identity", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve acls", err)
		}
		return
	}

	// Map keys become "type:id" strings on the wire.
	response := make(map[string]*model.Acl, len(acls))
	for oid, acl := range acls {
		response[oid.Type+":"+oid.ID] = acl
	}
	c.JSON(http.StatusOK, response)
}

// GetAcl endpoint
func (ac *AclController) GetAcl(c *gin.Context) {
	oid := model.NewObjectIdentity(c.Param("type"), c.Param("id"))

	acl, err := ac.aclService.ReadByIdentity(c.Request.Context(), oid)
	if err != nil {
		switch {
		case errors.Is(err, aegis_errors.ErrAclNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Acl not found", err)
		case errors.Is(err, aegis_errors.ErrInvalidObjectIdentity):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid object identity", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve acl", err)
		}
		return
	}

	c.JSON(http.StatusOK, acl)
}

// InvalidateAcl endpoint
func (ac *AclController) InvalidateAcl(c *gin.Context) {
	oid := model.NewObjectIdentity(c.Param("type"), c.Param("id"))

	if err := ac.aclService.Invalidate(c.Request.Context(), oid); err != nil {
		if errors.Is(err, aegis_errors.ErrInvalidObjectIdentity) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid object identity", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to invalidate acl", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// InvalidateAclByID endpoint
func (ac *AclController) InvalidateAclByID(c *gin.Context) {
	pk, err := strconv.ParseInt(c.Param("pk"), 10, 64)
	if err != nil || pk == 0 {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid acl primary key", aegis_errors.ErrInvalidPrimaryKey)
		return
	}

	if err := ac.aclService.InvalidateByID(c.Request.Context(), model.PrimaryKey(pk)); err != nil {
		if errors.Is(err, aegis_errors.ErrInvalidPrimaryKey) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid acl primary key", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to invalidate acl", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCache endpoint
func (ac *AclController) ClearCache(c *gin.Context) {
	if err := ac.aclService.ClearCache(c.Request.Context()); err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to clear acl cache", err)
		return
	}

	c.Status(http.StatusNoContent)
}
