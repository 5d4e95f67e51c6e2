package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskboard/api/handler"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

type Handlers struct {
	Project      *apiHandler.ProjectHandler
	Task         *apiHandler.TaskHandler
	Sweep        *apiHandler.SweepHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
	// Metrics is optional; /metrics is only routed when it is set.
	Metrics fasthttp.RequestHandler
}

func New(handlers Handlers, authMiddleware Middleware) *router.Router {
	if authMiddleware == nil {
		authMiddleware = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	api := r.Group("/api")

	// Projects
	api.GET("/projects", handlers.Project.List)
	api.POST("/projects", authMiddleware(handlers.Project.Create))
	api.GET("/projects/{id}", handlers.Project.Get)
	api.PUT("/projects/{id}", authMiddleware(handlers.Project.Rename))
	api.DELETE("/projects/{id}", authMiddleware(handlers.Project.Delete))
	api.GET("/projects/{id}/tasks", handlers.Project.Tasks)

	// Tasks
	api.POST("/tasks", authMiddleware(handlers.Task.Create))
	api.GET("/tasks/update-overdue", handlers.Sweep.UpdateOverdue)
	api.GET("/tasks/{id}", handlers.Task.Get)
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.Update))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.Delete))
	api.PATCH("/tasks/{id}/complete", authMiddleware(handlers.Task.Complete))
	api.PATCH("/tasks/{id}/status", authMiddleware(handlers.Task.SetStatus))

	api.GET("/notifications", handlers.Notification.Check)

	return r
}

// Chain wraps h so the first middleware runs outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
