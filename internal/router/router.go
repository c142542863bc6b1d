package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/auth"
	"taskboard/internal/handler"
)

// Register wires routes and middleware. All task and comment routes sit behind
// the JWT gate; register/login/refresh/logout are public.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	commentHandler *handler.CommentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/refresh", authHandler.Refresh)
	e.POST("/logout", authHandler.Logout)

	// Secured routes (require JWT authentication). Token parsing is delegated
	// to JWTService so handlers see *auth.Claims on the context.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	}))

	// Task routes
	secured.GET("/tasks", taskHandler.ListTasks)
	secured.POST("/tasks", taskHandler.CreateTask)
	secured.PUT("/tasks/:id", taskHandler.UpdateTask)
	secured.DELETE("/tasks/:id", taskHandler.DeleteTask)

	// Comment routes
	secured.GET("/comments", commentHandler.ListComments)
	secured.POST("/comments", commentHandler.CreateComment)
	secured.PUT("/comments/:id", commentHandler.UpdateComment)
	secured.DELETE("/comments/:id", commentHandler.DeleteComment)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
