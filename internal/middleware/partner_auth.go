package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/constants"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/services"
)

// RequirePartner resolves the authenticated user's partner and stores the
// partner ID in the request context. Partner routes are read-only views; an
// unpaired user gets 404 rather than 403 so the route does not reveal
// whether a pairing ever existed.
func RequirePartner(pairingService *services.PairingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		partnerID, err := pairingService.PartnerID(userID)
		if err != nil {
			apierrors.InternalError(c, "Failed to resolve partner")
			c.Abort()
			return
		}
		if partnerID == 0 {
			apierrors.NotFound(c, "No partner linked")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPartnerID, partnerID)
		c.Next()
	}
}

// GetPartnerID retrieves the resolved partner ID from context
func GetPartnerID(c *gin.Context) (uint64, bool) {
	partnerID, exists := c.Get(constants.ContextKeyPartnerID)
	if !exists {
		return 0, false
	}

	id, ok := partnerID.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}
