package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/auth"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/logger"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/response"
)

// ContextClaimsKey is the gin context key storing verified token claims.
const ContextClaimsKey = "currentClaims"

// JWT protects routes by requiring a valid bearer token.
func JWT(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortWithError(c, appErrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.AbortWithError(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(logger.SubjectKey, claims.Subject)
		c.Next()
	}
}
