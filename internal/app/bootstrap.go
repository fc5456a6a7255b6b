package app

import (
	"context"
	"fmt"
	"strings"

	"job-hunter/internal/config"
	"job-hunter/internal/delivery/http/handler"
	"job-hunter/internal/delivery/http/middleware"
	"job-hunter/internal/delivery/http/routes"
	v1 "job-hunter/internal/delivery/http/routes/v1"
	"job-hunter/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container

	cancel  context.CancelFunc
	hubDone chan struct{}
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger.Named("http"))
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(logger.Named("http"))
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	api := v1.Handlers{
		Dashboard:     handler.NewDashboardHandler(c.Dashboard),
		Listings:      handler.NewListingHandler(c.ListingQuery, c.Ingest, c.Logger.Named("http")),
		Search:        handler.NewSearchHandler(c.Search),
		Status:        handler.NewPipelineStatusHandler(c.Status, c.Logger.Named("http")),
		InternalGuard: middleware.NewInternalTokenMiddleware(c.Config.App.InternalToken).Middleware(),
	}
	routes.NewRegistry(ws.NewHandler(c.Hub, c.Logger.Named("ws")), api).Register(app)
}

// Start launches the hub and the refresher. They run until Stop.
func (a *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.hubDone = make(chan struct{})
	go func() {
		defer close(a.hubDone)
		a.Container.Hub.Run(ctx)
	}()

	if err := a.Container.Refresher.Start(ctx); err != nil {
		cancel()
		<-a.hubDone
		return err
	}
	return nil
}

func (a *App) Stop() {
	if a == nil || a.cancel == nil {
		return
	}
	a.Container.Refresher.Stop()
	a.cancel()
	<-a.hubDone
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
