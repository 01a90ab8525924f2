package controllers

import (
	"net/http"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/badges"
)

// BadgeController serves the add-on badge catalog.
type BadgeController struct {
	badges badges.Service
}

// NewBadgeController wires the controller to its service.
func NewBadgeController(badgesSvc badges.Service) *BadgeController {
	return &BadgeController{badges: badgesSvc}
}

// List returns every badge.
func (c *BadgeController) List(w http.ResponseWriter, r *http.Request) {
	rows, err := c.badges.ListBadges(r.Context())
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", rows)
}

// Get loads one badge.
func (c *BadgeController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	badge, err := c.badges.GetBadge(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", badge)
}

type badgePayload struct {
	Name        string  `json:"name" validate:"required"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Create inserts a badge.
func (c *BadgeController) Create(w http.ResponseWriter, r *http.Request) {
	var payload badgePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	badge, err := c.badges.CreateBadge(r.Context(), badges.CreateBadgeInput{
		Name:        payload.Name,
		Icon:        payload.Icon,
		Description: payload.Description,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "badge created", badge)
}

type badgeUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Update edits badge fields.
func (c *BadgeController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload badgeUpdatePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	badge, err := c.badges.UpdateBadge(r.Context(), id, badges.UpdateBadgeInput{
		Name:        payload.Name,
		Icon:        payload.Icon,
		Description: payload.Description,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "badge updated", badge)
}

// Delete removes a badge.
func (c *BadgeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.badges.DeleteBadge(r.Context(), id); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "badge deleted", nil)
}
