package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/auth"

	"github.com/gin-gonic/gin"
)

// SubjectKey is the gin context key holding the verified subject id.
const SubjectKey = "subject"

// Auth verifies the bearer credential and stores the subject id in the
// request context. The subject is the only source of the caller
// identity; nothing downstream reads it from the request body or query.
func Auth(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthenticated", "message": "no token provided"})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthenticated", "message": "invalid token format"})
			return
		}

		subject, err := v.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthenticated", "message": "invalid token"})
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}
