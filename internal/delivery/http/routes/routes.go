package routes

import (
	"job-hunter/internal/delivery/http/handler"
	v1 "job-hunter/internal/delivery/http/routes/v1"
	"job-hunter/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	ws     *ws.Handler
	v1     v1.Handlers
}

func NewRegistry(wsHandler *ws.Handler, api v1.Handlers) *Registry {
	return &Registry{health: handler.NewHealthHandler(), ws: wsHandler, v1: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerPages(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerPages(app *fiber.App) {
	if r.v1.Dashboard != nil {
		r.v1.Dashboard.RegisterPage(app)
	}
	if r.ws != nil {
		r.ws.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
