package controller

import (
	"net/http"
	"strconv"

	"eco-ui/web/middleware"
	"eco-ui/web/service"

	"github.com/gin-gonic/gin"
)

type UserAdminController struct {
	users *service.UserService
}

// NewUserAdminController registers the admin-only user management routes.
func NewUserAdminController(authed *gin.RouterGroup, users *service.UserService) *UserAdminController {
	u := &UserAdminController{users: users}

	admin := authed.Group("/users")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", u.list)
		admin.DELETE("/:id", u.delete)
		admin.POST("/:username/promote", u.promote)
	}
	return u
}

func (u *UserAdminController) list(c *gin.Context) {
	users, err := u.users.ListUsers()
	if err != nil {
		jsonMsg(c, "list users", err)
		return
	}
	jsonObj(c, users, nil)
}

func (u *UserAdminController) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	if middleware.GetUser(c).Id == id {
		pureJsonMsg(c, http.StatusBadRequest, false, "cannot delete your own account")
		return
	}
	if err := u.users.DeleteUser(id); err != nil {
		jsonMsg(c, "delete user", err)
		return
	}
	jsonMsg(c, "user deleted", nil)
}

func (u *UserAdminController) promote(c *gin.Context) {
	username := c.Param("username")
	if err := u.users.PromoteUser(username); err != nil {
		jsonMsg(c, "promote user", err)
		return
	}
	jsonMsg(c, "user promoted", nil)
}
