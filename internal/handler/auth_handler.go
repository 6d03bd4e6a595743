package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fedauth/internal/service"
)

// AuthHandler handles sign-in and session endpoints.
type AuthHandler struct {
	socialAuthService service.SocialAuthService
	authService       service.AuthService
	respond           Responder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(socialAuthService service.SocialAuthService, authService service.AuthService, respond Responder) *AuthHandler {
	return &AuthHandler{socialAuthService: socialAuthService, authService: authService, respond: respond}
}

// GoogleAuth handles POST /user/google_auth/
// @Summary Sign in with Google
// @Description Exchange a Google ID token for a session, creating or linking the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Google ID token"
// @Success 200 {object} service.SocialLoginOutput "Signed in"
// @Failure 400 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "User is inactive"
// @Failure 409 {object} ErrorResponse "Account conflict"
// @Failure 503 {object} ErrorResponse "Session issuance failed"
// @Router /user/google_auth/ [post]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var input service.GoogleAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respond.BadRequest(c, err)
		return
	}

	output, err := h.socialAuthService.GoogleAuth(c.Request.Context(), input)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// AppleAuth handles POST /user/apple_auth/
// @Summary Sign in with Apple
// @Description Exchange an Apple identity token for a session. Email and fullName are only sent by Apple on the first authorization.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AppleAuthRequest true "Apple identity token and first-login profile"
// @Success 200 {object} service.SocialLoginOutput "Signed in"
// @Failure 400 {object} ErrorResponse "Missing or invalid token, or email not provided"
// @Failure 403 {object} ErrorResponse "User is inactive"
// @Failure 409 {object} ErrorResponse "Account conflict"
// @Failure 503 {object} ErrorResponse "Session issuance failed"
// @Router /user/apple_auth/ [post]
func (h *AuthHandler) AppleAuth(c *gin.Context) {
	var input service.AppleAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respond.BadRequest(c, err)
		return
	}

	output, err := h.socialAuthService.AppleAuth(c.Request.Context(), input)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// RefreshToken handles POST /token/refresh/
// @Summary Refresh session
// @Description Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} service.TokenPair "New tokens"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid or revoked refresh token"
// @Failure 403 {object} ErrorResponse "User is inactive"
// @Router /token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respond.BadRequest(c, err)
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /token/logout/
// @Summary Log out
// @Description Revoke a refresh token
// @Tags auth
// @Accept json
// @Param request body RefreshRequest true "Refresh token"
// @Success 204 "Logged out"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid refresh token"
// @Router /token/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respond.BadRequest(c, err)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		h.respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
