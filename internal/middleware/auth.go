package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/constants"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
)

// RequireAuth rejects requests without a signed-in session and stores the
// normalized user ID in the request context for the handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := normalizeUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return normalizeUserID(value)
}

// normalizeUserID widens the session-stored ID. The session codec may hand
// back a narrower integer type than the one stored at login.
func normalizeUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
