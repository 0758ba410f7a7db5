package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// RequireIdentity reads the authenticated identity the auth gateway puts
// on every request. Credentials themselves are the gateway's concern; this
// service trusts the forwarded (user_id, role) pair.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(headerUserID), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthenticated", "message": "missing or invalid identity"},
			})
			return
		}

		role := model.Role(c.GetHeader(headerUserRole))
		if role != model.RoleStudent && role != model.RoleTutor {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthenticated", "message": "missing or invalid role"},
			})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

// CurrentUser returns the identity injected by RequireIdentity.
func CurrentUser(c *gin.Context) (int64, model.Role) {
	return c.GetInt64(ctxUserID), c.MustGet(ctxUserRole).(model.Role)
}
