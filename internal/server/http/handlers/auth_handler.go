package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/dto"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/middleware"
)

const (
	forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent"
	resetPasswordMessage  = "Password has been reset successfully"
)

// AuthHandler processes registration, login and password resets.
type AuthHandler struct {
	facade     AuthFacade
	production bool
}

// NewAuthHandler creates AuthHandler instance. Outside production the reset token is echoed back.
func NewAuthHandler(facade AuthFacade, production bool) *AuthHandler {
	return &AuthHandler{facade: facade, production: production}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req schema.RegisterRequest
	if !bind(c, &req) {
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), model.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, h.production)
	c.JSON(http.StatusCreated, dto.AuthResponse{UserResponse: dto.NewUserResponse(*user), Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req schema.LoginRequest
	if !bind(c, &req) {
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, h.production)
	c.JSON(http.StatusOK, dto.AuthResponse{UserResponse: dto.NewUserResponse(*user), Token: token})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req schema.ForgotPasswordRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.facade.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	resp := dto.ForgotPasswordResponse{Message: forgotPasswordMessage}
	if !h.production {
		resp.ResetToken = token
	}
	c.JSON(http.StatusOK, resp)
}

// ResetPassword handles POST /api/auth/reset-password/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req schema.ResetPasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.facade.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: resetPasswordMessage})
}
