package api

import (
	"github.com/datallboy/gotube/internal/api/controllers"
	"github.com/datallboy/gotube/internal/app"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context, runner controllers.Runner, planner controllers.Planner) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	runsCtrl := &controllers.RunsController{App: app}
	batchCtrl := &controllers.BatchController{App: app, Runner: runner, Planner: planner}

	// Run history
	e.GET("/api/runs", runsCtrl.List)
	e.GET("/api/runs/:id", runsCtrl.Get)

	// Batch control
	e.POST("/api/batches", batchCtrl.Submit)
	e.DELETE("/api/batches/:id", batchCtrl.Cancel)
	e.GET("/api/active", batchCtrl.Active)
}
