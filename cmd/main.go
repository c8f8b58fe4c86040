package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	changeStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/change_reservation_status"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_availability"
	getCustomerReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_reservations"
	getProfessionalReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_professional_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getScheduleHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_schedule"
	setSlotDiscountHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/set_slot_discount"
	updateScheduleDaysHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_schedule_days"
	upsertScheduleHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/upsert_schedule"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	catalogServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	notifyServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	professionalServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/professionalservice"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	schedulesService "github.com/m04kA/SMC-ReservationService/internal/service/schedules"
	"github.com/m04kA/SMC-ReservationService/internal/sweeper"
	changeStatusUC "github.com/m04kA/SMC-ReservationService/internal/usecase/change_status"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")

	// Операционная тайм-зона: все инстанты расписаний и броней считаются в ней
	location, err := time.LoadLocation(cfg.Service.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Service.Timezone, err)
	}
	log.Info("Operational timezone: %s", cfg.Service.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	professionalClient := professionalServiceClient.NewClient(
		cfg.ProfessionalService.URL,
		time.Duration(cfg.ProfessionalService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Catalog=%s, Professional=%s, Notify=%s)",
		cfg.CatalogService.URL, cfg.ProfessionalService.URL, cfg.NotifyService.URL)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		txMgr                 *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	schedulesSvc := schedulesService.NewService(scheduleRepository, professionalClient, txMgr, log)
	reservationsSvc := reservationsService.NewService(reservationRepository, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		scheduleRepository,
		catalogClient,
		professionalClient,
		notifyClient,
		txMgr,
		location,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		scheduleRepository,
		reservationRepository,
		location,
		log,
	)
	changeStatusUseCase := changeStatusUC.NewUseCase(
		reservationRepository,
		scheduleRepository,
		professionalClient,
		notifyClient,
		txMgr,
		location,
		log,
	)

	// Инициализируем фоновый проход
	var sweeperMetrics sweeper.Metrics
	if metricsCollector != nil {
		sweeperMetrics = metricsCollector
	}
	sweep := sweeper.New(
		reservationRepository,
		scheduleRepository,
		notifyClient,
		txMgr,
		sweeperMetrics,
		location,
		time.Duration(cfg.Service.SweepIntervalSeconds)*time.Second,
		time.Duration(cfg.Service.SweepTimeoutSeconds)*time.Second,
		time.Duration(cfg.Service.ReminderLeadMinutes)*time.Minute,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	changeStatus := changeStatusHandler.NewHandler(changeStatusUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	getCustomerReservations := getCustomerReservationsHandler.NewHandler(reservationsSvc, log)
	getProfessionalReservations := getProfessionalReservationsHandler.NewHandler(reservationsSvc, log)
	upsertSchedule := upsertScheduleHandler.NewHandler(schedulesSvc, log)
	updateScheduleDays := updateScheduleDaysHandler.NewHandler(schedulesSvc, log)
	setSlotDiscount := setSlotDiscountHandler.NewHandler(schedulesSvc, log)
	getSchedule := getScheduleHandler.NewHandler(schedulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// Публичные ручки: доступность и расписание мастера
	api.HandleFunc("/professionals/{professionalId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Брони
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/status", changeStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/customers/{customerId}/reservations", getCustomerReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/reservations", getProfessionalReservations.Handle).Methods(http.MethodGet)

	// Расписания
	api.HandleFunc("/professionals/{professionalId}/schedule", upsertSchedule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/professionals/{professionalId}/schedule/days", updateScheduleDays.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/professionals/{professionalId}/schedule/{day}/slots/{timeCode}/discount",
		setSlotDiscount.Handle).Methods(http.MethodPatch)

	// Запускаем фоновый проход
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweep.Run(sweepCtx)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopSweep()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
