package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fedauth/internal/middleware"
	"fedauth/internal/service"
)

// UserHandler handles endpoints for the signed-in user.
type UserHandler struct {
	userService service.UserService
	respond     Responder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, respond Responder) *UserHandler {
	return &UserHandler{userService: userService, respond: respond}
}

// Me handles GET /user/
// @Summary Current user
// @Description Get the profile of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} service.UserPayload "User details"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "User is inactive"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /user/ [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, service.NewUserPayload(user))
}
