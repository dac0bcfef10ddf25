// Package entity defines the request and response shapes of the web layer.
package entity

// Msg is the standard API response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

type RegisterForm struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type TokenForm struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type EcoForm struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ActionForm carries the optional comment of a workflow transition. For
// reject the comment is mandatory and checked in the controller.
type ActionForm struct {
	Comment string `json:"comment"`
}
