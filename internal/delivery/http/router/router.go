// Package router contains routing setup for the HTTP delivery.
package router

import (
	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"
	"taskhub/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	TodoHandler    *handler.TodoHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	todoHandler    *handler.TodoHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		todoHandler:    params.TodoHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Identity routes
	authGroup := e.Group("/api/auth")
	{
		authGroup.GET("/check", r.userHandler.CheckEmail)
		authGroup.POST("", r.userHandler.Register)
		authGroup.POST("/signin", r.userHandler.Login)
	}

	// Identity routes that require authentication
	authGroup.PUT("/promote", r.userHandler.Promote,
		r.authMiddleware.Authenticate,
		r.authMiddleware.RequireRole(entity.RoleCommon))
	authGroup.GET("/load-profile", r.userHandler.LoadProfile,
		r.authMiddleware.Authenticate)

	// Todo routes, all owner-scoped behind authentication
	todoGroup := e.Group("/api/todos")
	todoGroup.Use(r.authMiddleware.Authenticate)
	{
		todoGroup.GET("", r.todoHandler.List)
		todoGroup.POST("", r.todoHandler.Create)
		todoGroup.PUT("", r.todoHandler.Update)
		todoGroup.PATCH("", r.todoHandler.Update)
		todoGroup.DELETE("/:id", r.todoHandler.Delete)
	}
}
