package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"vestlock/api"
	"vestlock/config"
	"vestlock/database"
	"vestlock/events"
	"vestlock/events/kafka"
	"vestlock/models"
	"vestlock/repository"
	"vestlock/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting vesting service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Attach kafka forwarding when brokers are configured
	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		log.Printf("Forwarding events to kafka topic %s...", cfg.KafkaTopic)
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher.Attach(eventBus)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Seed principal registry for roles not yet bound
	if err := seedPrincipals(ctx, uowFactory, cfg); err != nil {
		return fmt.Errorf("failed to seed principals: %w", err)
	}

	// Initialize services
	vestingService := service.NewVestingService(uowFactory, time.Now)
	adminService := service.NewAdminService(uowFactory)

	// Start HTTP server
	server := api.NewServer(cfg.ListenAddr, vestingService, adminService)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Printf("Service is running in %s mode...", cfg.Environment)
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Printf("Error closing kafka publisher: %v", err)
		}
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}

// seedPrincipals writes the configured addresses into the registry for
// any role that has no binding yet. Existing bindings win so a restart
// does not undo a SetPrincipal or ownership transfer.
func seedPrincipals(ctx context.Context, uowFactory service.UnitOfWorkFactory, cfg *config.Config) error {
	seeds := map[models.PrincipalRole]string{
		models.RoleOwner:    cfg.OwnerAddress,
		models.RoleToken:    cfg.TokenAddress,
		models.RolePresale1: cfg.Presale1Address,
		models.RolePresale2: cfg.Presale2Address,
		models.RolePresale3: cfg.Presale3Address,
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for role, address := range seeds {
		if address == "" {
			continue
		}
		existing, err := uow.PrincipalRepository().Get(ctx, role)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := uow.PrincipalRepository().Set(ctx, role, address); err != nil {
			return err
		}
		log.Printf("Seeded %s principal from config", role)
	}

	return uow.Commit()
}
