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

	cancelBookingHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/cancel_booking"
	cancelRecurringHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/cancel_recurring_booking"
	completeBookingHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/create_booking"
	createExceptionHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/create_exception"
	createRecurringHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/create_recurring_booking"
	findStartDatesHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/find_start_dates"
	getAvailabilityHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/get_availability"
	getBookingHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/get_booking"
	getRecurringHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/get_recurring_booking"
	getResourceBookingsHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/get_resource_bookings"
	getUserBookingsHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/get_user_bookings"
	manageBlocksHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/manage_blocks"
	manageWindowsHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/manage_windows"
	transferBookingHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/transfer_booking"
	transferRecurringHandler "github.com/quadralivre/facility-booking-service/internal/api/handlers/transfer_recurring_booking"
	"github.com/quadralivre/facility-booking-service/internal/api/middleware"
	"github.com/quadralivre/facility-booking-service/internal/calendar"
	"github.com/quadralivre/facility-booking-service/internal/config"
	blockRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/block"
	bookingRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/booking"
	recurringRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/recurring"
	windowRepo "github.com/quadralivre/facility-booking-service/internal/infra/storage/teachingwindow"
	accessServiceClient "github.com/quadralivre/facility-booking-service/internal/integrations/accessservice"
	resourceServiceClient "github.com/quadralivre/facility-booking-service/internal/integrations/resourceservice"
	bookingsService "github.com/quadralivre/facility-booking-service/internal/service/bookings"
	scheduleService "github.com/quadralivre/facility-booking-service/internal/service/schedule"
	createBookingUC "github.com/quadralivre/facility-booking-service/internal/usecase/create_booking"
	createRecurringUC "github.com/quadralivre/facility-booking-service/internal/usecase/create_recurring_booking"
	findStartDatesUC "github.com/quadralivre/facility-booking-service/internal/usecase/find_start_dates"
	getAvailabilityUC "github.com/quadralivre/facility-booking-service/internal/usecase/get_availability"
	"github.com/quadralivre/facility-booking-service/pkg/dbmetrics"
	"github.com/quadralivre/facility-booking-service/pkg/logger"
	"github.com/quadralivre/facility-booking-service/pkg/metrics"
	"github.com/quadralivre/facility-booking-service/pkg/simpletxmanager"
	"github.com/quadralivre/facility-booking-service/pkg/txmanager"
	"github.com/quadralivre/facility-booking-service/pkg/types"
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

	log.Info("Starting FacilityBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем календарь комплекса
	cal, err := calendar.New(cfg.Facility.Timezone)
	if err != nil {
		log.Fatal("Failed to initialize calendar: %v", err)
	}
	log.Info("Facility calendar initialized (timezone=%s)", cfg.Facility.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	resourceClient := resourceServiceClient.NewClient(
		cfg.ResourceService.URL,
		time.Duration(cfg.ResourceService.Timeout)*time.Second,
		log,
	)
	accessClient := accessServiceClient.NewClient(
		cfg.AccessService.URL,
		time.Duration(cfg.AccessService.Timeout)*time.Second,
		time.Duration(cfg.AccessService.CacheTTLSeconds)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ResourceService=%s timeout=%ds, AccessService=%s timeout=%ds cache_ttl=%ds)",
		cfg.ResourceService.URL, cfg.ResourceService.Timeout,
		cfg.AccessService.URL, cfg.AccessService.Timeout, cfg.AccessService.CacheTTLSeconds)

	// Инициализируем репозитории и сервисы (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		recurringRepository *recurringRepo.Repository
		blockRepository     *blockRepo.Repository
		windowRepository    *windowRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		recurringRepository = recurringRepo.NewRepository(wrappedDB)
		blockRepository = blockRepo.NewRepository(wrappedDB)
		windowRepository = windowRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		recurringRepository = recurringRepo.NewRepository(db)
		blockRepository = blockRepo.NewRepository(db)
		windowRepository = windowRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		recurringRepository,
		accessClient,
		txMgr,
		cal,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		blockRepository,
		windowRepository,
		resourceClient,
		accessClient,
		cal,
		log,
	)

	// Инициализируем use cases
	slotParams := createBookingUC.Params{
		OpenTime:            types.TimeString(cfg.Facility.OpenTime),
		CloseTime:           types.TimeString(cfg.Facility.CloseTime),
		SlotDurationMinutes: cfg.Facility.SlotDurationMinutes,
	}

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		recurringRepository,
		blockRepository,
		resourceClient,
		accessClient,
		scheduleSvc,
		txMgr,
		cal,
		slotParams,
		log,
	)

	createRecurringUseCase := createRecurringUC.NewUseCase(
		bookingRepository,
		recurringRepository,
		resourceClient,
		accessClient,
		scheduleSvc,
		txMgr,
		cal,
		createRecurringUC.Params{
			OpenTime:             slotParams.OpenTime,
			CloseTime:            slotParams.CloseTime,
			SlotDurationMinutes:  slotParams.SlotDurationMinutes,
			ConflictHorizonWeeks: cfg.Facility.ConflictHorizonWeeks,
			SuggestionMaxWeeks:   cfg.Facility.SuggestionMaxWeeks,
			SuggestionMaxResults: cfg.Facility.SuggestionMaxResults,
		},
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		recurringRepository,
		blockRepository,
		resourceClient,
		getAvailabilityUC.Params{
			OpenTime:            slotParams.OpenTime,
			CloseTime:           slotParams.CloseTime,
			SlotDurationMinutes: slotParams.SlotDurationMinutes,
		},
		log,
	)

	findStartDatesUseCase := findStartDatesUC.NewUseCase(
		bookingRepository,
		recurringRepository,
		resourceClient,
		cal,
		findStartDatesUC.Params{
			SuggestionMaxWeeks:   cfg.Facility.SuggestionMaxWeeks,
			SuggestionMaxResults: cfg.Facility.SuggestionMaxResults,
			ConflictHorizonWeeks: cfg.Facility.ConflictHorizonWeeks,
		},
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createRecurring := createRecurringHandler.NewHandler(createRecurringUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	findStartDates := findStartDatesHandler.NewHandler(findStartDatesUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getRecurring := getRecurringHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	cancelRecurring := cancelRecurringHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	transferBooking := transferBookingHandler.NewHandler(bookingSvc, log)
	transferRecurring := transferRecurringHandler.NewHandler(bookingSvc, log)
	createException := createExceptionHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getResourceBookings := getResourceBookingsHandler.NewHandler(bookingSvc, log)
	manageBlocks := manageBlocksHandler.NewHandler(scheduleSvc, log)
	manageWindows := manageWindowsHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность ресурса на день
	api.HandleFunc("/resources/{resourceId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Свободные даты начала еженедельного слота
	api.HandleFunc("/resources/{resourceId}/free-dates",
		findStartDates.Handle).Methods(http.MethodGet)

	// Окна преподавания вида спорта
	api.HandleFunc("/sports/{sportId}/teaching-windows",
		manageWindows.HandleList).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Одноразовые бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/transfer", transferBooking.Handle).Methods(http.MethodPost)

	// --- Еженедельные бронирования ---
	protected.HandleFunc("/recurring-bookings", createRecurring.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-bookings/{recurringId}", getRecurring.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/recurring-bookings/{recurringId}/cancel", cancelRecurring.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/recurring-bookings/{recurringId}/transfer", transferRecurring.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/recurring-bookings/{recurringId}/exceptions", createException.Handle).Methods(http.MethodPost)

	// --- История бронирований ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (для администраторов) ---
	protected.HandleFunc("/blocks", manageBlocks.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/blocks", manageBlocks.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/blocks/{blockId}", manageBlocks.HandleDelete).Methods(http.MethodDelete)
	protected.HandleFunc("/teaching-windows", manageWindows.HandleUpsert).Methods(http.MethodPut)
	protected.HandleFunc("/teaching-windows/{windowId}", manageWindows.HandleDeactivate).Methods(http.MethodDelete)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
