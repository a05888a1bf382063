// api/middleware/auth.go

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/aegis/api/config"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
)

// Claims carried by aegis access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Auth verifies the bearer token and attaches the caller's security
// identities: the subject as a principal sid plus one authority sid per
// role. Downstream strategies read them through model.ActorFrom.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			logger.Warn("No Authorization token provided", zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		sids := make([]model.Sid, 0, len(claims.Roles)+1)
		sids = append(sids, model.PrincipalSid(claims.Subject))
		for _, role := range claims.Roles {
			sids = append(sids, model.AuthoritySid(role))
		}

		c.Set("userID", claims.Subject)
		c.Set("roles", claims.Roles)
		c.Set("actorSids", sids)
		c.Request = c.Request.WithContext(model.WithActor(c.Request.Context(), sids))

		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// It must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("roles")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		roles, _ := value.([]string)
		for _, held := range roles {
			if held == role {
				c.Next()
				return
			}
		}

		logger.Warn("Missing required role",
			zap.String("role", role),
			zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		c.Abort()
	}
}

func parseToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	secret := []byte(config.GetString("auth.jwtSecret"))
	if len(secret) == 0 {
		return nil, fmt.Errorf("auth.jwtSecret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token or wrong claims type")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}
