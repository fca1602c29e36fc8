package router

import (
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/private/auth")
	authRoutes.Use(mw.AuthMiddleware())
	authRoutes.GET("/google", r.controller.GoogleAuthURL)

	v1.GET("/public/auth/google/callback", r.controller.GoogleCallback)
}
