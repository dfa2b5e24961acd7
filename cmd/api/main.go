package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/resto-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/resto-ledger/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/resto-ledger/internal/interfaces/http"
	"github.com/jhoicas/resto-ledger/pkg/config"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	var txRunner ledger.LedgerTxRunner
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner = memory.New()
	default:
		if cfg.Migrations.OnStart {
			runMigrations(cfg.DB, log)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
	}

	// Notificaciones de estado: opcionales, nunca bloquean el ledger.
	var notifier ledger.StatusNotifier
	if cfg.AMQP.Enabled() {
		conn, err := rabbitmq.Dial(cfg.AMQP.URL)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ no disponible, se continúa sin notificaciones")
		} else {
			defer conn.Close()
			notifier = rabbitmq.NewStatusPublisher(conn, cfg.AMQP.Exchange)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Aggregates:  ledger.NewAggregateUseCase(txRunner, log),
		LineItems:   ledger.NewLineItemUseCase(txRunner, log),
		Recalculate: ledger.NewRecalculateUseCase(txRunner, log),
		Statuses:    ledger.NewStatusLedgerUseCase(txRunner, notifier, log),
		Discounts:   ledger.NewDiscountUseCase(txRunner, log),
		Log:         log,
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

func runMigrations(db config.DBConfig, log *logger.Logger) {
	m, err := postgres.NewMigrator(db.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("preparar migraciones")
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
