package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/estoque-wms/internal/application/auth"
	"github.com/jhoicas/estoque-wms/internal/application/inventory"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/metrics"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory *inventory.Service
	Reports   *pdf.StockReportGenerator
	Metrics   *metrics.Metrics
	AuthUC    *auth.AuthUseCase // nil: login desactivado
	JWTSecret string            // vacío: rutas de estoque e histórico sin token
	AppName   string
	Now       func() time.Time
}

// NewApp construye la aplicación Fiber con recover, /health, /metrics y las rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app fiber.Router, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}

	// Rutas protegidas cuando hay secret configurado
	protected := api
	if deps.JWTSecret != "" {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
	}

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Inventory, deps.Reports, deps.Now)
	stock.Get("/", stockHandler.List)
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/lots/:code", stockHandler.Lots)
	stock.Get("/export", stockHandler.Export)
	stock.Post("/entries", stockHandler.RegisterEntry)
	stock.Post("/exits", stockHandler.RegisterExit)
	stock.Post("/transfers", stockHandler.Transfer)
	stock.Patch("/lote", stockHandler.UpdateLote)
	stock.Post("/import", stockHandler.Import)
	stock.Delete("/", stockHandler.Clear)

	history := protected.Group("/history")
	historyHandler := NewHistoryHandler(deps.Inventory, deps.Now)
	history.Get("/", historyHandler.List)
	history.Get("/export", historyHandler.Export)
	history.Delete("/", historyHandler.Clear)
}
