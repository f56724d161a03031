package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/logging"
	"storefront/internal/mykafka"
	"storefront/internal/service"
	"storefront/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "register", err)
	}

	user, token, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, l, "register", err)
	}

	publish(ctx, l, h.Producer, "user_events", user.ID.String(), map[string]any{
		"type":  "user_registered",
		"id":    user.ID,
		"email": user.Email,
	})

	l.Info("user registered", "user_id", user.ID)
	return okMessage(c, http.StatusCreated, "User registered successfully", transport.AuthResponse{User: user, Token: token})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "login", err)
	}

	user, token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, l, "login", err)
	}

	publish(ctx, l, h.Producer, "user_events", user.ID.String(), map[string]any{
		"type": "user_logged_in",
		"id":   user.ID,
	})

	l.Info("user logged in", "user_id", user.ID)
	return okMessage(c, http.StatusOK, "Login successful", transport.AuthResponse{User: user, Token: token})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("me_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		return fail(c, l, "me", err)
	}

	return okData(c, http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update.profile")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("update_profile_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "update_profile", err)
	}

	user, err := h.Svc.UpdateProfile(ctx, userID, req)
	if err != nil {
		return fail(c, l, "update_profile", err)
	}

	l.Info("profile updated", "user_id", user.ID)
	return okMessage(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *AuthHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update.password")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("update_password_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "update_password", err)
	}

	if err := h.Svc.UpdatePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, l, "update_password", err)
	}

	l.Info("password updated", "user_id", userID)
	return okMessage(c, http.StatusOK, "Password updated successfully", nil)
}
