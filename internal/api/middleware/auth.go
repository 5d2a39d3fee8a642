package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"clipscribe/internal/app/model"
	"clipscribe/internal/app/repository"
)

const (
	// SessionUserKey is the session entry holding the signed-in user ID.
	SessionUserKey = "user_id"

	userContextKey = "current_user"
)

// RequireUser rejects unauthenticated requests and loads the session's user
// into the request context. A session pointing at a deleted user is cleared.
func RequireUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserKey).(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authentication required",
			})
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			session.Delete(SessionUserKey)
			_ = session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authentication required",
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireUser. It panics if called on
// a route outside the authenticated group.
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet(userContextKey).(*model.User)
}
