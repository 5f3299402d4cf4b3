package handler

import (
	"log/slog"
	"net/http"

	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TodoHandler holds dependencies for todo-related handlers.
type TodoHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTodoHandler is the constructor for TodoHandler, injected by Fx.
func NewTodoHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		uc:     uc,
		logger: logger,
	}
}

// List returns all of the caller's todos, oldest first.
func (h *TodoHandler) List(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WrapMessage("user id missing from request context")
	}

	output, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Todos retrieved successfully")
}

// Create adds a new todo and responds with the caller's refreshed list.
func (h *TodoHandler) Create(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WrapMessage("user id missing from request context")
	}

	var input usecase.CreateTodoInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid todo input")
	}

	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.uc.Create(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return h.respondWithList(c, userID, "Todo created successfully")
}

// Update patches one of the caller's todos and responds with the refreshed list.
func (h *TodoHandler) Update(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WrapMessage("user id missing from request context")
	}

	var input usecase.UpdateTodoInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid todo input")
	}

	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.uc.Update(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return h.respondWithList(c, userID, "Todo updated successfully")
}

// Delete removes one of the caller's todos and responds with the remaining list.
func (h *TodoHandler) Delete(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WrapMessage("user id missing from request context")
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid todo id")
	}

	output, err := h.uc.Delete(c.Request().Context(), userID, todoID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Todo deleted successfully")
}

// respondWithList refreshes the caller's todo list after a mutation, so the
// client always renders the current state.
func (h *TodoHandler) respondWithList(c echo.Context, userID uuid.UUID, message string) error {
	output, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, message)
}
