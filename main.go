package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Monkeyboy26/flooring-platform-sub002/config"
	catalogproductrepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/catalogproduct"
	controlnumberrepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/controlnumber"
	editransactionrepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/editransaction"
	invoicerepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/invoice"
	purchaseorderrepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/purchaseorder"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/database"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/events"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/kafka"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/middleware"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/outbound"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/reconcile"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/routes/edi"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/routes/health"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/transport"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/utils"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Printf("failed to bind environment variables: %v\n", err)
		os.Exit(1)
	}
	if _, err := utils.Validate(cfg); err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	ctx := context.Background()

	shutdownTracing := initTracing(cfg)
	defer shutdownTracing()

	db, err := database.Connect(ctx, database.ConnectionConfig{
		Driver:          cfg.DatabaseDriver,
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		UserName:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(cfg, db, logger); err != nil {
		logger.WithError(err).Error("Failed to run database migrations")
		os.Exit(1)
	}

	controlNumbers := controlnumberrepo.NewRepository(db, logger)
	transactions := editransactionrepo.NewRepository(db, logger)
	purchaseOrders := purchaseorderrepo.NewRepository(db, logger)
	catalogProducts := catalogproductrepo.NewRepository(db, logger)
	invoices := invoicerepo.NewRepository(db, logger)

	fileStore := transport.NewSFTPStore(transport.SFTPConfig{
		Host:     cfg.SFTPHost,
		Port:     cfg.SFTPPort,
		User:     cfg.SFTPUser,
		Password: cfg.SFTPPassword,
		Timeout:  cfg.SFTPTimeout,
	}, logger)

	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
	}
	emitter := events.NewEmitter(producer, logger)

	builder := outbound.NewBuilder(outbound.Profile{
		SenderID:       cfg.PartnerSenderID,
		ReceiverID:     cfg.PartnerReceiverID,
		AccountNumber:  cfg.PartnerAccountNumber,
		UsageIndicator: cfg.PartnerUsageIndicator,
		ShipTo: outbound.ShipTo{
			Name:       cfg.ShipToName,
			Code:       cfg.ShipToCode,
			Address:    cfg.ShipToAddress,
			City:       cfg.ShipToCity,
			State:      cfg.ShipToState,
			PostalCode: cfg.ShipToPostalCode,
		},
		Delimiters: x12.Delimiters{
			Element:    cfg.ElementSeparator,
			SubElement: cfg.SubElementSeparator,
			Segment:    cfg.SegmentTerminator,
		},
	})
	sender := outbound.NewSender(logger, builder, controlNumbers, fileStore, transactions,
		purchaseOrders, emitter, cfg.PartnerID, cfg.SFTPOutboundDirectory, cfg.HardSurfaceKeywords)

	engine := reconcile.NewEngine(logger, reconcile.Config{
		PartnerID:        cfg.PartnerID,
		InboundDirectory: cfg.SFTPInboundDirectory,
		ArchiveDirectory: cfg.SFTPArchiveDirectory,
		FileExtensions:   cfg.InboundFileExtensions,
	}, fileStore, transactions, purchaseOrders, catalogProducts, invoices, emitter)

	poller := reconcile.NewPoller(engine, cfg.PollInterval, logger)
	if cfg.PollEnabled {
		if err := poller.Start(ctx); err != nil {
			logger.WithError(err).Error("Failed to start reconciliation poller")
			os.Exit(1)
		}
	}

	if err := registerDependencies(transactions, purchaseOrders, engine, sender); err != nil {
		logger.WithError(err).Error("Failed to register dependencies")
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context(cfg.PartnerID))
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.HTTPErrorHandler = middleware.Error(logger)

	checker := health.NewChecker(db.Unsafe(), poller, version)
	checker.RegisterRoutes(e)

	edi.Register(e.Group("/api/v1/edi"))

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.WithError(err).Info("HTTP server stopped")
		}
	}()
	checker.SetReady(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := poller.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to stop reconciliation poller")
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down HTTP server")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Printf("failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func initTracing(cfg config.Config) func() {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(otel.Tracer(cfg.AppName))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
}

func runMigrations(cfg config.Config, db database.DB, logger ectologger.Logger) error {
	driver, err := migratepostgres.WithInstance(db.Unsafe().DB, &migratepostgres.Config{})
	if err != nil {
		return err
	}
	ms := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
	})
	return ms.Migrate(cfg.DatabaseName, driver)
}

// registerDependencies wires the handler dependencies into the default DI
// container so route handlers can resolve them from the request context.
func registerDependencies(
	transactions *editransactionrepo.Repository,
	purchaseOrders *purchaseorderrepo.Repository,
	engine *reconcile.Engine,
	sender *outbound.Sender,
) error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*editransactionrepo.Repository](container, transactions); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*purchaseorderrepo.Repository](container, purchaseOrders); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*reconcile.Engine](container, engine); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*outbound.Sender](container, sender); err != nil {
		return err
	}
	return nil
}
