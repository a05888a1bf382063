// api/util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", nil
	}
	return userID.(string), nil
}

// GetActorSidsFromContext returns the sids the auth middleware attached
// for the requesting principal, or nil on unauthenticated routes.
func GetActorSidsFromContext(c *gin.Context) []model.Sid {
	value, exists := c.Get("actorSids")
	if !exists {
		return nil
	}
	sids, _ := value.([]model.Sid)
	return sids
}
