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

	cancelBookingHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/create_booking"
	createCompanyHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/create_company"
	getAvailableSlotsHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/get_booking"
	getCompanyHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/get_company"
	getCompanyBookingsHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/get_company_bookings"
	terminateSessionHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/terminate_session"
	trackLeadHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/track_lead"
	updateCompanyHandler "github.com/m04kA/SMC-LeadBookingService/internal/api/handlers/update_company"
	"github.com/m04kA/SMC-LeadBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LeadBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/booking"
	companyRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/company"
	leadRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/lead"
	terminationRepo "github.com/m04kA/SMC-LeadBookingService/internal/infra/storage/termination"
	"github.com/m04kA/SMC-LeadBookingService/internal/infra/tasks"
	sheetSyncClient "github.com/m04kA/SMC-LeadBookingService/internal/integrations/sheetsync"
	bookingsService "github.com/m04kA/SMC-LeadBookingService/internal/service/bookings"
	companiesService "github.com/m04kA/SMC-LeadBookingService/internal/service/companies"
	sessionsService "github.com/m04kA/SMC-LeadBookingService/internal/service/sessions"
	checkAvailabilityUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/get_available_slots"
	reapStuckLeadsUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/reap_stuck_leads"
	reconcileLeadUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/reconcile_lead"
	recoverPendingSyncsUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/recover_pending_syncs"
	syncBookingUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/sync_booking"
	syncLeadUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/sync_lead"
	trackLeadUC "github.com/m04kA/SMC-LeadBookingService/internal/usecase/track_lead"
	"github.com/m04kA/SMC-LeadBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LeadBookingService/pkg/logger"
	"github.com/m04kA/SMC-LeadBookingService/pkg/metrics"
	"github.com/m04kA/SMC-LeadBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-LeadBookingService/pkg/txmanager"
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

	log.Info("Starting SMC-LeadBookingService...")
	log.Info("Configuration loaded from config.toml")

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

	// Клиент выгрузки во внешний webhook
	sheetClient := sheetSyncClient.NewClient(
		cfg.SheetSync.URL,
		time.Duration(cfg.SheetSync.Timeout)*time.Second,
		log,
	)
	log.Info("SheetSync client initialized (url=%s, timeout=%ds, max_attempts=%d)",
		cfg.SheetSync.URL, cfg.SheetSync.Timeout, cfg.SheetSync.MaxAttempts)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository     *bookingRepo.Repository
		companyRepository     *companyRepo.Repository
		leadRepository        *leadRepo.Repository
		terminationRepository *terminationRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		companyRepository = companyRepo.NewRepository(wrappedDB)
		leadRepository = leadRepo.NewRepository(wrappedDB)
		terminationRepository = terminationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		companyRepository = companyRepo.NewRepository(db)
		leadRepository = leadRepo.NewRepository(db)
		terminationRepository = terminationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Очередь отложенных задач (выгрузки во внешний webhook)
	var taskMetrics tasks.Collector
	if cfg.Metrics.Enabled {
		taskMetrics = metricsCollector
	}
	queue := tasks.NewQueue(log, taskMetrics)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	companySvc := companiesService.NewService(companyRepository, log)
	sessionSvc := sessionsService.NewService(
		terminationRepository,
		time.Duration(cfg.Leads.TerminationRetentionHours)*time.Hour,
		log,
	)

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(bookingRepository, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, companyRepository, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		companyRepository,
		leadRepository,
		queue,
		txMgr,
		log,
	)
	trackLeadUseCase := trackLeadUC.NewUseCase(leadRepository, log)
	reconcileLeadUseCase := reconcileLeadUC.NewUseCase(leadRepository, terminationRepository, log)
	reapStuckLeadsUseCase := reapStuckLeadsUC.NewUseCase(leadRepository, queue, log)
	recoverPendingSyncsUseCase := recoverPendingSyncsUC.NewUseCase(leadRepository, bookingRepository, queue, log)

	retryDelay := time.Duration(cfg.SheetSync.RetryDelayMinutes) * time.Minute
	syncBookingUseCase := syncBookingUC.NewUseCase(
		bookingRepository,
		companyRepository,
		sheetClient,
		queue,
		cfg.SheetSync.MaxAttempts,
		retryDelay,
		log,
	)
	syncLeadUseCase := syncLeadUC.NewUseCase(
		leadRepository,
		companyRepository,
		reconcileLeadUseCase,
		sheetClient,
		queue,
		cfg.SheetSync.MaxAttempts,
		retryDelay,
		log,
	)

	// Регистрируем обработчики задач
	if err := queue.Register(tasks.KindBookingSync, syncBookingUseCase.HandleTask); err != nil {
		log.Fatal("Failed to register booking sync handler: %v", err)
	}
	if err := queue.Register(tasks.KindLeadSync, syncLeadUseCase.HandleTask); err != nil {
		log.Fatal("Failed to register lead sync handler: %v", err)
	}

	// Фоновые воркеры: чистка зависших лидов и журнала закрытий сессий
	workerCtx, stopWorkers := context.WithCancel(context.Background())

	reapTimeout := time.Duration(cfg.Leads.ReapTimeoutMinutes) * time.Minute
	reapInterval := time.Duration(cfg.Leads.ReapIntervalMinutes) * time.Minute
	go tasks.RunRecurring(workerCtx, reapInterval, "reap_stuck_leads", log, func(ctx context.Context) error {
		_, err := reapStuckLeadsUseCase.Execute(ctx, reapTimeout)
		return err
	})

	// Очередь задач живет в памяти: выгрузки, потерянные при рестарте,
	// возвращаются в очередь по sync_status из базы. Grace-окно вдвое больше
	// задержки повтора, чтобы не продублировать уже запланированные повторы
	recoverInterval := time.Duration(cfg.SheetSync.RecoverIntervalMinutes) * time.Minute
	recoverGrace := 2 * retryDelay
	go tasks.RunRecurring(workerCtx, recoverInterval, "recover_pending_syncs", log, func(ctx context.Context) error {
		_, err := recoverPendingSyncsUseCase.Execute(ctx, recoverGrace)
		return err
	})

	purgeInterval := time.Duration(cfg.Leads.TerminationPurgeIntervalMinutes) * time.Minute
	go tasks.RunRecurring(workerCtx, purgeInterval, "purge_terminations", log, func(ctx context.Context) error {
		_, err := sessionSvc.PurgeExpired(ctx)
		return err
	})

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCompanyBookings := getCompanyBookingsHandler.NewHandler(bookingSvc, log)
	createCompany := createCompanyHandler.NewHandler(companySvc, log)
	updateCompany := updateCompanyHandler.NewHandler(companySvc, log)
	getCompany := getCompanyHandler.NewHandler(companySvc, log)
	trackLead := trackLeadHandler.NewHandler(trackLeadUseCase, log)
	terminateSession := terminateSessionHandler.NewHandler(sessionSvc, log)

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
	// PUBLIC ROUTES (вызываются виджетом формы, без аутентификации)
	// ============================================================

	// Проверка занятости конкретного слота
	api.HandleFunc("/companies/{companyId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Сетка слотов компании на дату
	api.HandleFunc("/companies/{companyId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Автосохранение формы (лид)
	api.HandleFunc("/leads/track", trackLead.Handle).Methods(http.MethodPost)

	// Сигнал о закрытии формы (beacon)
	api.HandleFunc("/sessions/{sessionId}/terminate",
		terminateSession.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Управление компаниями ---
	// Список бронирований компании
	protected.HandleFunc("/companies/{companyId}/bookings", getCompanyBookings.Handle).Methods(http.MethodGet)

	// Создание компании
	protected.HandleFunc("/companies", createCompany.Handle).Methods(http.MethodPost)

	// Обновление компании
	protected.HandleFunc("/companies/{companyId}", updateCompany.Handle).Methods(http.MethodPut)

	// Карточка компании
	protected.HandleFunc("/companies/{companyId}", getCompany.Handle).Methods(http.MethodGet)

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

	// Останавливаем фоновые воркеры и очередь задач
	stopWorkers()
	queue.Stop()

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
