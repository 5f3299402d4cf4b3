// Package handler contains the HTTP handlers for the application.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Multipart part names for the registration request.
const (
	registerUserPart  = "user"
	registerImagePart = "profileImage"
)

// UserHandler holds dependencies for identity-related handlers.
type UserHandler struct {
	uc     usecase.IdentityUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.IdentityUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// CheckEmail reports whether an email is already registered.
func (h *UserHandler) CheckEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return response.BadRequest(c, "INVALID_INPUT", "email query parameter is required")
	}

	exists, err := h.uc.ExistsByEmail(c.Request().Context(), email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"exists": exists}, "Email availability checked")
}

// Register handles the multipart registration request. The "user" part
// carries the registration JSON, the optional "profileImage" part the
// uploaded image file.
func (h *UserHandler) Register(c echo.Context) error {
	userPart := c.FormValue(registerUserPart)
	if userPart == "" {
		return response.BindingError(c, "INVALID_INPUT", "user part is required")
	}

	var input usecase.RegisterInput
	if err := json.Unmarshal([]byte(userPart), &input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	fileHeader, err := c.FormFile(registerImagePart)
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return errors.Wrap(err, "failed to open uploaded profile image")
		}
		defer file.Close()

		input.ProfileImage = &usecase.ProfileImageInput{
			Filename: fileHeader.Filename,
			Content:  file,
		}
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output.User, "User registered successfully")
}

// Login handles the sign-in request.
func (h *UserHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Promote upgrades the authenticated common-tier caller to premium.
func (h *UserHandler) Promote(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WrapMessage("user id missing from request context")
	}

	output, err := h.uc.Promote(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "User promoted successfully")
}

// LoadProfile streams the authenticated caller's profile image.
func (h *UserHandler) LoadProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WrapMessage("user id missing from request context")
	}

	output, err := h.uc.LoadProfileImage(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, output.ContentType, output.Data)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
