// Package controller provides the HTTP handlers of the eco-ui API:
// registration and tokens, the ECO workflow, attachments, reports and user
// administration.
package controller

import (
	"net/http"

	"eco-ui/logger"
	"eco-ui/web/entity"
	"eco-ui/web/middleware"
	"eco-ui/web/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	users *service.UserService
}

// NewAuthController registers registration and login on the public group and
// logout on the authenticated group.
func NewAuthController(public, authed *gin.RouterGroup, users *service.UserService) *AuthController {
	a := &AuthController{users: users}
	public.POST("/register", a.register)
	public.POST("/token", a.token)
	authed.POST("/logout", a.logout)
	return a
}

func (a *AuthController) register(c *gin.Context) {
	var form entity.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	profile := service.Profile{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	}
	if err := a.users.RegisterUser(form.Username, form.Password, profile); err != nil {
		jsonMsg(c, "register user", err)
		return
	}
	c.JSON(http.StatusCreated, entity.Msg{Success: true, Msg: "user registered successfully"})
}

func (a *AuthController) token(c *gin.Context) {
	var form entity.TokenForm
	if err := c.ShouldBindJSON(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	token, err := a.users.GenerateToken(form.Username, form.Password)
	if err != nil {
		logger.Infof("rejected token request for '%s' from %s", form.Username, getRemoteIp(c))
		pureJsonMsg(c, http.StatusUnauthorized, false, "invalid credentials")
		return
	}
	jsonObj(c, gin.H{"token": token}, nil)
}

func (a *AuthController) logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if err := a.users.RevokeToken(token); err != nil {
		jsonMsg(c, "revoke token", err)
		return
	}
	jsonMsg(c, "logged out", nil)
}
