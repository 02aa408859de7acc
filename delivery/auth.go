package delivery

import (
	"net/http"
	"strings"

	"authsphere/domain"
	"authsphere/dto"
	"authsphere/middleware"
	"authsphere/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUseCase
}

func NewAuthHandler(r *gin.Engine, authUC domain.AuthUseCase, limiter middleware.RateLimiter) {
	handler := &AuthHandler{authUC: authUC}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/users/", middleware.RateLimit(limiter, middleware.RuleRegister), handler.Register)
		auth.POST("/jwt/create/", middleware.RateLimit(limiter, middleware.RuleLogin), handler.Login)
		auth.POST("/jwt/refresh/", handler.Refresh)
	}

	// Password-reset flow; each step is throttled per client IP before any
	// business logic runs.
	reset := r.Group("/password/reset")
	{
		reset.POST("/", middleware.RateLimit(limiter, middleware.RuleResetRequest), handler.RequestPasswordReset)
		reset.POST("/verify-otp/", middleware.RateLimit(limiter, middleware.RuleResetVerify), handler.VerifyOTP)
		reset.POST("/confirm/", middleware.RateLimit(limiter, middleware.RuleResetConfirm), handler.ConfirmPasswordReset)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "Register", &err)
		bindError(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	user, err := h.authUC.Register(c.Request.Context(), email, req.Username, req.Password)
	if err != nil {
		// Only unique-constraint violations are conflicts; everything else
		// keeps its own status so a DB outage is not reported as a duplicate.
		if utils.IsDuplicateKey(err) {
			utils.PrintLogInfo(&email, 409, "Register", &err)
			fail(c, http.StatusConflict, "CONFLICT", utils.TranslateDBError(err))
			return
		}
		utils.PrintLogInfo(&email, 400, "Register", &err)
		failDomain(c, err)
		return
	}

	utils.PrintLogInfo(&email, 201, "Register", nil)
	resp := dto.MapUserResponse(user)
	ok(c, http.StatusCreated, "User created successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "Login", &err)
		bindError(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	tokens, err := h.authUC.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		utils.PrintLogInfo(&email, 401, "Login", &err)
		fail(c, http.StatusUnauthorized, domain.ErrorCode(err), "Login failed")
		return
	}

	utils.PrintLogInfo(&email, 200, "Login", nil)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Login successful",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tokens, err := h.authUC.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.PrintLogInfo(nil, 401, "Refresh", &err)
		fail(c, http.StatusUnauthorized, domain.ErrorCode(err), "Invalid or expired refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Token refreshed successfully",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// RequestPasswordReset acknowledges with the same wording whether or not the
// email is registered, so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "RequestPasswordReset", &err)
		bindError(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	if err := h.authUC.RequestPasswordReset(c.Request.Context(), email); err != nil {
		utils.PrintLogInfo(&email, 502, "RequestPasswordReset", &err)
		failDomain(c, err)
		return
	}

	utils.PrintLogInfo(&email, 200, "RequestPasswordReset", nil)
	ok(c, http.StatusOK, "If your email is registered, you will receive an OTP code.", nil)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "VerifyOTP", &err)
		bindError(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	if err := h.authUC.VerifyResetOTP(c.Request.Context(), email, req.OTPCode); err != nil {
		utils.PrintLogInfo(&email, 400, "VerifyOTP", &err)
		failDomain(c, err)
		return
	}

	utils.PrintLogInfo(&email, 200, "VerifyOTP", nil)
	ok(c, http.StatusOK, "OTP verified successfully.", nil)
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.ConfirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "ConfirmPasswordReset", &err)
		bindError(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	if err := h.authUC.ConfirmPasswordReset(c.Request.Context(), email, req.OTPCode, req.NewPassword, req.ConfirmPassword); err != nil {
		utils.PrintLogInfo(&email, 400, "ConfirmPasswordReset", &err)
		failDomain(c, err)
		return
	}

	utils.PrintLogInfo(&email, 200, "ConfirmPasswordReset", nil)
	ok(c, http.StatusOK, "Password has been reset successfully.", nil)
}
