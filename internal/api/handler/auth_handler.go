package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/ports"
)

// AuthHandler handles the credential flows.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and returns a session token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
		Position:     req.Position,
		Phone:        req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Success: true, Token: result.Token, User: result.User})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Token: result.Token, User: result.User})
}

// Me returns the authenticated caller's account.
//
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: user})
}

// VerifyEmail consumes an email-verification token.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Email verified successfully"})
}

// ForgotPassword mails a password reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password reset email sent"})
}

// ResetPassword consumes a reset token and sets a new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password reset successful"})
}
