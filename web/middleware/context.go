package middleware

import (
	"eco-ui/database/model"

	"github.com/gin-gonic/gin"
)

// GetUser returns the authenticated user set by TokenAuth, or nil.
func GetUser(c *gin.Context) *model.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}
