// @title        Facturacion API
// @version      1.0
// @description  Facturas de compra/venta multiempresa y cuotas mensuales de la plataforma.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token JWT>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Facturacion-api/docs"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/gateway"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/lock"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/clock"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   cfg.App.Name,
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		version, _, _ := postgres.MigrationVersion(pool)
		log.Info().Uint("version", version).Msg("esquema al día")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	billingMetrics := metrics.New(registry)

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Numeración y cobros: lock distribuido si hay Redis; si no, lock en proceso (una sola instancia).
	localLocker := lock.NewLocalLocker()
	var locker billing.NumberLocker = localLocker
	var chargeLocker payment.Locker = localLocker
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("REDIS_URL inválida")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		// El lock de cobro cubre la llamada completa a la pasarela.
		chargeLocker = lock.NewRedisLocker(rdb, cfg.Billing.ChargeTimeout+cfg.Redis.LockTTL)
		log.Info().Msg("locks de numeración y cobro en Redis")
	}

	var gw payment.Gateway = gateway.Unavailable{}
	if cfg.Stripe.SecretKey != "" {
		stripeGW, err := gateway.NewStripeGateway(gateway.StripeConfig{
			SecretKey: cfg.Stripe.SecretKey,
			Timeout:   cfg.Billing.ChargeTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("pasarela Stripe")
		}
		gw = stripeGW
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY vacío: los cobros serán rechazados")
	}

	clk := clock.Real{}
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, txRunner, locker, clk, log, billingMetrics)
	generatorUC := payment.NewGeneratorUseCase(paymentRepo, companyRepo, cfg.Billing.MonthlyFee, log, billingMetrics)
	chargeUC := payment.NewChargeUseCase(paymentRepo, gw, chargeLocker, payment.ChargeConfig{
		Currency:      cfg.Billing.Currency,
		Timeout:       cfg.Billing.ChargeTimeout,
		WriteAttempts: 3,
		WriteBackoff:  200 * time.Millisecond,
	}, log, billingMetrics)

	sched, err := scheduler.New(generatorUC, clk, log, billingMetrics, scheduler.Config{
		Schedule:     cfg.Billing.Schedule,
		RunOnStartup: cfg.Billing.RunOnStartup,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("programador de cuotas")
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: docs.FilePath,
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:   invoiceUC,
		GeneratorUC: generatorUC,
		ChargeUC:    chargeUC,
		Clock:       clk,
		Log:         log,
		JWTSecret:   cfg.JWT.Secret,
		Gatherer:    registry,
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
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("generación de cuotas en curso al apagar")
	}

	log.Info().Msg("aplicación detenida")
}
