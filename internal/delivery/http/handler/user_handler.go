package handler

import (
	"net/http"
	"strings"
	"time"

	"job-board/internal/config"
	"job-board/internal/middleware"
	"job-board/internal/usecase/user"
	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
)

const ActivationTokenCookie = "activation_token"

type UserHandler struct {
	service *user.Service
	config  *config.Config
}

func NewUserHandler(service *user.Service, cfg *config.Config) *UserHandler {
	return &UserHandler{service: service, config: cfg}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/activate", h.Activate)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password/:token", h.ResetPassword)
		authGroup.POST("/refresh-token", h.RefreshToken)
	}
}

// RegisterProfileRoutes expects router to sit behind the auth middleware.
func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", h.Me)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setCookie(c, ActivationTokenCookie, result.ActivationToken, h.config.JWT.ActivationTTL())
	utils.SuccessResponse(c, http.StatusOK, "Verification code send Successfully", nil)
}

func (h *UserHandler) Activate(c *gin.Context) {
	var req user.ActivateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Token = requestToken(c, ActivationTokenCookie)

	if err := h.service.Activate(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	h.clearCookie(c, ActivationTokenCookie)
	utils.SuccessResponse(c, http.StatusOK, "User verified successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	utils.SuccessResponse(c, http.StatusOK, "User logged in successfully", result.Profile)
}

// Logout only clears the cookies; issued tokens stay valid until they expire.
func (h *UserHandler) Logout(c *gin.Context) {
	h.clearCookie(c, middleware.AccessTokenCookie)
	h.clearCookie(c, middleware.RefreshTokenCookie)
	utils.SuccessResponse(c, http.StatusOK, "User logged Out", nil)
}

func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset link sent to your email", nil)
}

// ResetPassword checks the link token before the body: an empty or malformed
// body reaches the service as a missing password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		req = user.ResetPasswordRequest{}
	}

	if err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshToken := requestToken(c, middleware.RefreshTokenCookie)
	if refreshToken == "" && c.Request.ContentLength != 0 {
		var req user.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = strings.TrimSpace(req.RefreshToken)
		}
	}

	if refreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	utils.SuccessResponse(c, http.StatusOK, "Token refreshed successfully", result.Tokens)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserHandler) setSessionCookies(c *gin.Context, result *user.AuthResult) {
	h.setCookie(c, middleware.AccessTokenCookie, result.Tokens.AccessToken, h.config.JWT.AccessTTL())
	h.setCookie(c, middleware.RefreshTokenCookie, result.Tokens.RefreshToken, h.config.JWT.RefreshTTL())
}

func (h *UserHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", h.config.Auth.CookieSecure, true)
}

func (h *UserHandler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", h.config.Auth.CookieSecure, true)
}

// requestToken prefers the named cookie and falls back to a bearer header.
func requestToken(c *gin.Context, cookie string) string {
	if token, err := c.Cookie(cookie); err == nil && token != "" {
		return token
	}
	if token, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
		return token
	}
	return ""
}
