package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/dto"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/middleware"
)

// ProfileHandler serves the current account and admin user listings.
type ProfileHandler struct {
	facade ProfileFacade
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(facade ProfileFacade) *ProfileHandler {
	return &ProfileHandler{facade: facade}
}

// Me handles GET /api/users/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentIdentity(c).UserID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// UpdateAddress handles PUT /api/users/me/address.
func (h *ProfileHandler) UpdateAddress(c *gin.Context) {
	var req schema.AddressRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.facade.UpdateAddress(c.Request.Context(), CurrentIdentity(c).UserID, req.Model())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// List handles GET /api/admin/users.
func (h *ProfileHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.facade.Users(c.Request.Context(), limit, offset)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserList(users))
}
