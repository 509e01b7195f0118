package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/todo-render/docs"
	"github.com/99minutos/todo-render/internal/api/handler"
	"github.com/99minutos/todo-render/internal/api/middleware"
	"github.com/99minutos/todo-render/internal/api/render"
	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Sessions       ports.SessionService
	Todos          ports.TodoService
	Cookie         *middleware.SessionCookie
	GoogleClientID string
	// Ready is checked by /health/ready, keyed by dependency name.
	Ready map[string]handler.Pinger
	// Registry collects the HTTP metrics. Nil means the default registry,
	// which also holds the custom metrics.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Sessions, deps.Cookie)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "todo_render",
		Registerer: registerer,
	}))
	e.Use(middleware.Session(deps.Cookie, deps.Sessions, deps.Log))

	authHandler := handler.NewAuthHandler(deps.Sessions, deps.Cookie, deps.GoogleClientID)
	pageHandler := handler.NewTodoPageHandler(deps.Todos, deps.Sessions, deps.Log)
	apiHandler := handler.NewTodoAPIHandler(deps.Todos)

	// --- Auth ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, handler.ServerSidePath)
	})
	e.GET(handler.LoginPath, authHandler.LoginPage)
	e.POST(handler.LoginPath, authHandler.Login)
	e.POST("/auth/google", authHandler.GoogleLogin)
	e.POST("/logout", authHandler.Logout)

	// --- Pages ---
	e.GET(handler.ServerSidePath, pageHandler.ServerSide)
	e.GET(handler.ClientSidePath, pageHandler.ClientSide)
	e.POST("/todos", pageHandler.Create)
	e.POST("/todos/:id/toggle", pageHandler.Toggle)
	e.POST("/todos/:id/delete", pageHandler.Delete)

	// --- JSON API ---
	apiGroup := e.Group("/api/todos")
	apiGroup.GET("", apiHandler.List)

	vip := middleware.RBAC(domain.RoleVIP)
	apiGroup.POST("", apiHandler.Create, vip)
	apiGroup.PUT("/:id", apiHandler.Update, vip)
	apiGroup.DELETE("/:id", apiHandler.Delete, vip)

	// --- Health probes, metrics, docs ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
