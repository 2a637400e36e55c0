package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ordio-mrp/ordio-api/internal/application/auth"
	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/application/manufacturing"
	"github.com/ordio-mrp/ordio-api/internal/application/usecase"
	"github.com/ordio-mrp/ordio-api/internal/infrastructure/postgres"
	httpRouter "github.com/ordio-mrp/ordio-api/internal/interfaces/http"
	"github.com/ordio-mrp/ordio-api/pkg/config"
	"github.com/ordio-mrp/ordio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
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

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Repositorios sobre el pool (lecturas y escrituras de una sola fila).
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewStockLedgerRepository(pool)
	adjustmentRepo := postgres.NewStockAdjustmentRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	workCenterRepo := postgres.NewWorkCenterRepository(pool)
	moRepo := postgres.NewManufacturingOrderRepository(pool)
	reqRepo := postgres.NewComponentRequirementRepository(pool)
	woRepo := postgres.NewWorkOrderRepository(pool)
	eventRepo := postgres.NewWorkOrderEventRepository(pool)

	// Runners transaccionales (repos atados a la tx por callback).
	inventoryTx := postgres.NewInventoryTxRunner(pool)
	manufacturingTx := postgres.NewManufacturingTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(inventoryTx, ledgerRepo)
	adjustmentUC := inventory.NewAdjustmentUseCase(inventoryTx, adjustmentRepo, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, ledgerUC)
	bomUC := usecase.NewBOMUseCase(bomRepo, productRepo, workCenterRepo)
	workCenterUC := usecase.NewWorkCenterUseCase(workCenterRepo)
	moUC := manufacturing.NewMOUseCase(manufacturingTx, moRepo, reqRepo, woRepo, bomRepo, productRepo)
	woUC := manufacturing.NewWOUseCase(manufacturingTx, woRepo, eventRepo, moUC)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		BOMUC:        bomUC,
		WorkCenterUC: workCenterUC,
		LedgerUC:     ledgerUC,
		AdjustmentUC: adjustmentUC,
		MOUC:         moUC,
		WOUC:         woUC,
		JWTSecret:    cfg.JWT.Secret,
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
