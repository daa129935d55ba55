package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/interest-ledger/internal/accrual"
	"github.com/interest-ledger/internal/api_gateway"
	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/config"
	"github.com/interest-ledger/internal/data/journal"
	"github.com/interest-ledger/internal/data/mongo"
	"github.com/interest-ledger/internal/data/postgres"
	"github.com/interest-ledger/internal/logger"
	"github.com/interest-ledger/internal/platform/messaging/consumers"
	"github.com/interest-ledger/internal/platform/messaging/producers"
	"github.com/interest-ledger/internal/platform/persistence"
	"github.com/interest-ledger/internal/store"
	"github.com/interest-ledger/internal/transaction_processor/consumer"
)

// databases holds the optional journal connections
type databases struct {
	postgres *persistence.PostgresDB
	mongo    *persistence.MongoDB
}

// messaging holds the optional Kafka clients
type messaging struct {
	events   producers.MessagePublisher
	dlq      *producers.DLQProducer
	consumer *consumers.KafkaConsumer
}

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting ledger server",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"storage_backend", string(cfg.Storage.Backend),
		"kafka_enabled", cfg.Kafka.Enabled,
	)

	// Storage: in-memory by default, journaled to PostgreSQL and MongoDB on request
	var dbs databases
	var ledgerStore *store.LedgerStore
	if cfg.DatabaseEnabled() {
		ledgerStore, dbs, err = openJournaledStore(appCtx, log, cfg)
		if err != nil {
			log.Error("Failed to initialize journaled storage", "error", err)
			os.Exit(1)
		}
	} else {
		ledgerStore = store.NewLedgerStore(log, nil)
	}

	// Messaging: ledger events, DLQ and the transaction request consumer
	msg := messaging{events: producers.NoopPublisher{}}
	if cfg.Kafka.Enabled {
		msg, err = openMessaging(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize Kafka", "error", err)
			os.Exit(1)
		}
	}

	// Initialize services
	ledgerService := service.NewLedgerService(log, ledgerStore, msg.events)
	ruleService := service.NewRuleService(log, ledgerStore, msg.events)

	accrualService, err := accrual.NewWorkerPoolService(ledgerStore, ledgerService, accrual.Config{Size: cfg.Accrual.WorkerPoolSize}, log)
	if err != nil {
		log.Error("Failed to initialize accrual worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, ledgerService, ruleService, accrualService)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if msg.consumer != nil {
		handler := consumer.NewTransactionRequestHandler(log, ledgerService, msg.dlq)
		if err := msg.consumer.Subscribe(appCtx, handler.HandleMessage); err != nil {
			log.Error("Failed to subscribe to transaction requests", "error", err)
			os.Exit(1)
		}
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if msg.consumer != nil {
		select {
		case <-msg.consumer.Done():
		case <-shutdownCtx.Done():
			log.Warn("Shutdown timeout reached before the Kafka consumer stopped")
		}
		if err = msg.consumer.Close(); err != nil {
			log.Error("Error closing Kafka consumer", "error", err)
		}
	}

	log.Info("Shutting down accrual worker pool", "capacity", accrualService.Capacity())
	accrualService.Shutdown()

	if err = msg.events.Close(); err != nil {
		log.Error("Error closing ledger event producer", "error", err)
	}
	if err = msg.dlq.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	if dbs.postgres != nil {
		dbs.postgres.Close()
	}
	if dbs.mongo != nil {
		if err = dbs.mongo.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	if serverErr != nil {
		log.Error("Ledger server shutdown with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("Ledger server shutdown completed")
}

// openJournaledStore connects both databases, wires the journal into a new
// store and replays everything journaled so far
func openJournaledStore(ctx context.Context, log *slog.Logger, cfg *config.Config) (*store.LedgerStore, databases, error) {
	var dbs databases

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return nil, dbs, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	dbs.postgres = postgresDB

	mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
	if err != nil {
		postgresDB.Close()
		return nil, dbs, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	dbs.mongo = mongoDB

	if err := mongo.EnsureIndexes(ctx, mongoDB.Database()); err != nil {
		return nil, dbs, err
	}

	j := journal.New(log,
		postgresDB,
		postgres.NewAccountRepository(log, postgresDB),
		postgres.NewRuleRepository(log, postgresDB),
		mongo.NewLedgerRepository(log, mongoDB.Database()),
	)

	ledgerStore := store.NewLedgerStore(log, j)
	if _, err := j.Restore(ctx, ledgerStore); err != nil {
		return nil, dbs, fmt.Errorf("failed to restore ledger: %w", err)
	}
	return ledgerStore, dbs, nil
}

// openMessaging creates the producers and the consumer. The DLQ producer is nil
// when no DLQ topic is configured.
func openMessaging(ctx context.Context, log *slog.Logger, cfg *config.KafkaConfig) (messaging, error) {
	events, err := producers.NewLedgerEventProducer(ctx, log, cfg)
	if err != nil {
		return messaging{}, fmt.Errorf("failed to initialize ledger event producer: %w", err)
	}

	dlq, err := producers.NewDLQProducer(ctx, log, cfg)
	if err != nil {
		_ = events.Close()
		return messaging{}, fmt.Errorf("failed to initialize DLQ producer: %w", err)
	}

	return messaging{
		events:   events,
		dlq:      dlq,
		consumer: consumers.NewKafkaConsumer(ctx, log, cfg),
	}, nil
}
