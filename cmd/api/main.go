package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/estoque-wms/internal/application/auth"
	"github.com/jhoicas/estoque-wms/internal/application/inventory"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/estoque-wms/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/estoque-wms/internal/interfaces/http"
	"github.com/jhoicas/estoque-wms/pkg/config"
	"github.com/jhoicas/estoque-wms/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	m := metrics.New("estoque")
	svc := inventory.NewService(repos.Stock, repos.History,
		inventory.WithLogger(log),
		inventory.WithMetrics(m),
	)
	if err := svc.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("restaurar estado")
	}

	deps := httpRouter.RouterDeps{
		Inventory: svc,
		Reports:   infrapdf.NewStockReportGenerator(""),
		Metrics:   m,
		AppName:   cfg.App.Name,
	}
	if cfg.AuthEnabled() {
		deps.JWTSecret = cfg.JWT.Secret
		deps.AuthUC = auth.NewAuthUseCase(
			auth.Operator{Username: cfg.Auth.Username, PasswordHash: cfg.Auth.PasswordHash},
			auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		)
		if cfg.Auth.PasswordHash == "" {
			log.Warn().Msg("JWT_SECRET definido sin AUTH_PASSWORD_HASH: nadie podrá iniciar sesión")
		}
	}

	app := httpRouter.NewApp(deps)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Estoque WMS API",
		}))
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
