package main

import (
	appointmenthandler "repairshop/internal/appointments/handler"
	appointmentrepo "repairshop/internal/appointments/repository"
	appointmentservice "repairshop/internal/appointments/service"
	availabilityhandler "repairshop/internal/availability/handler"
	availabilityservice "repairshop/internal/availability/service"
	calendarhandler "repairshop/internal/calendar/handler"
	calendarservice "repairshop/internal/calendar/service"
	requesthandler "repairshop/internal/requests/handler"
	requestrepo "repairshop/internal/requests/repository"
	requestservice "repairshop/internal/requests/service"
	requestvalidator "repairshop/internal/requests/validator"
	"repairshop/pkg/app"
	"repairshop/pkg/config"
	"repairshop/pkg/contracts"
	"repairshop/pkg/kafka"
	"repairshop/pkg/middleware"
)

const ServiceName = "repairshop"

func main() {
	cfg := config.Load(ServiceName)
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting repair shop service")

	handlers, publisher := initHandlers(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetPublisher(publisher)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) ([]contracts.Handler, kafka.Publisher) {
	calendar, err := cfg.BuildCalendar()
	if err != nil {
		cfg.Log.Fatal("Invalid working calendar configuration", "error", err)
	}

	var publisher kafka.Publisher = kafka.NopPublisher{}
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		publisher = producer
		cfg.Log.Info("Kafka event publishing enabled", "topic", cfg.KafkaTopic)
	}

	requestRepo := requestrepo.NewMongoRequestRepository(cfg)
	appointmentRepo := appointmentrepo.NewMongoAppointmentRepository(cfg)
	lockRepo := appointmentrepo.NewMongoLockRepository(cfg)

	ledger := appointmentservice.NewBookingLedger(
		appointmentRepo,
		lockRepo,
		requestRepo,
		calendar,
		publisher,
		cfg,
	)

	requestService := requestservice.NewRequestService(
		requestRepo,
		requestvalidator.NewRequestValidator(cfg.Log),
		ledger,
		cfg,
	)

	availabilityService := availabilityservice.NewAvailabilityService(appointmentRepo, calendar, cfg)
	calendarService := calendarservice.NewCalendarService(appointmentRepo, requestRepo, availabilityService, cfg)

	calendarAuth := middleware.BasicAuth(cfg.CalendarAuthUsername, cfg.CalendarAuthPassword, cfg.Log)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabase)

	return []contracts.Handler{
		requesthandler.NewRequestHandler(requestService, cfg.Log),
		appointmenthandler.NewAppointmentHandler(ledger, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		calendarhandler.NewCalendarHandler(calendarService, calendarAuth, cfg.Log),
	}, publisher
}
