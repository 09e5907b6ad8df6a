package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/tu-usuario/partes-api/internal/application/analytics"
	"github.com/tu-usuario/partes-api/internal/application/auth"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/partes-api/internal/infrastructure/sse"
	httpRouter "github.com/tu-usuario/partes-api/internal/interfaces/http"
	"github.com/tu-usuario/partes-api/pkg/config"
	"github.com/tu-usuario/partes-api/pkg/logger"
)

// TTLs de las cachés de lectura incidental.
const (
	dashboardCacheTTL  = 15 * time.Second
	permissionCacheTTL = 10 * time.Second
)

func main() {
	// .env es opcional: en despliegue las variables vienen del entorno
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	partRepo := postgres.NewPartRepository(pool)
	receivingRepo := postgres.NewReceivingRepository(pool)
	outgoingRepo := postgres.NewOutgoingRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	hub := sse.NewHub(log.With().Logger())

	partUC := inventory.NewPartUseCase(partRepo)
	receivingUC := inventory.NewReceivingUseCase(txRunner, receivingRepo)
	outgoingUC := inventory.NewOutgoingUseCase(txRunner, outgoingRepo)
	requestUC := inventory.NewRequestUseCase(txRunner, requestRepo, partRepo, hub)
	supplyUC := inventory.NewSupplyUseCase(txRunner, requestRepo, hub)
	movementUC := inventory.NewMovementUseCase(movementRepo)
	dashboardUC := analytics.NewDashboardUseCase(statsRepo, dashboardCacheTTL)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userCache := httpRouter.NewUserCache(userRepo, permissionCacheTTL)

	// sin WriteTimeout: cortaría el stream SSE de /events
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PartUC:      partUC,
		ReceivingUC: receivingUC,
		OutgoingUC:  outgoingUC,
		RequestUC:   requestUC,
		SupplyUC:    supplyUC,
		MovementUC:  movementUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		Hub:         hub,
		UserCache:   userCache,
		JWTSecret:   cfg.JWT.Secret,
	})

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
