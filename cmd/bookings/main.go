package main

import (
	"context"

	"studiobook/internal/bookings/events"
	bookingshandler "studiobook/internal/bookings/handler"
	bookingsrepo "studiobook/internal/bookings/repository"
	bookingsservice "studiobook/internal/bookings/service"
	catalogrepo "studiobook/internal/catalog/repository"
	catalogservice "studiobook/internal/catalog/service"
	wizardhandler "studiobook/internal/wizard/handler"
	wizardservice "studiobook/internal/wizard/service"
	"studiobook/internal/wizard/store"
	"studiobook/internal/wizard/validator"
	"studiobook/pkg/app"
	"studiobook/pkg/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	if err := bookingsrepo.EnsureIndexes(context.Background(), cfg); err != nil {
		cfg.Log.Fatal("failed to ensure booking indexes", "error", err)
	}

	wizardSvc, bookingSvc, cleanup := initServices(cfg)
	defer cleanup()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		wizardhandler.NewWizardHandler(wizardSvc, cfg.Log),
		bookingshandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (wizardservice.WizardService, bookingsservice.BookingService, func()) {
	draftValidator := validator.New()

	catalogSvc := catalogservice.NewCatalogService(
		catalogrepo.NewMongoCatalogRepository(cfg),
		cfg.Log,
	)

	draftStore := store.NewInMemoryDraftStore(cfg.DraftSessionTTL)
	wizardSvc := wizardservice.NewWizardService(draftStore, catalogSvc, draftValidator, cfg.Log)

	publisher := newPublisher(cfg)
	bookingSvc := bookingsservice.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		wizardSvc,
		catalogSvc,
		draftValidator,
		publisher,
		cfg.Log,
	)

	cleanup := func() {
		draftStore.Stop()
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("failed to close event publisher", "error", err)
		}
	}

	cfg.Log.Info("Bookings service initialized", "database", cfg.MongoDatabaseName)
	return wizardSvc, bookingSvc, cleanup
}

func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("event publishing disabled")
		return events.NopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("failed to initialize event publisher", "error", err)
	}
	cfg.Log.Info("event publishing enabled", "topic", cfg.EventsSubmittedTopic)
	return publisher
}
