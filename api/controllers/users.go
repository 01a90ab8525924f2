package controllers

import (
	"net/http"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/identity"
)

// UserController serves the admin account directory.
type UserController struct {
	identity identity.Service
}

// NewUserController wires the controller to its service.
func NewUserController(identitySvc identity.Service) *UserController {
	return &UserController{identity: identitySvc}
}

// List pages through accounts.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, meta, err := c.identity.ListUsers(r.Context(), validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", users, meta)
}

// Get loads one account.
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	user, err := c.identity.GetUser(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", user)
}
