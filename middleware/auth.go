package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"campus-booking-backend/models"
	"campus-booking-backend/services"
	"campus-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// JWTAuth validates the bearer token and loads the authenticated user into
// the request context. Requests with a valid token for a deleted user are
// rejected the same way as requests with a bad token.
func JWTAuth(secret string, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token payload")
			c.Abort()
			return
		}

		user, err := users.GetByID(uint(id))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "user not found")
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireRole rejects requests whose authenticated user has none of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			utils.JSONError(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
