package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getCatalogHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_catalog"
	getLedgerHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_ledger"
	indexHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/index"
	paymentCallbackHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/payment_callback"
	submitBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/submit_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	ledgerCache "github.com/m04kA/SMC-SalonBooking/internal/infra/cache/ledger"
	sessionCache "github.com/m04kA/SMC-SalonBooking/internal/infra/cache/session"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
	catalogService "github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	ledgerService "github.com/m04kA/SMC-SalonBooking/internal/service/ledger"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	settlePaymentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/settle_payment"
	submitBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/web"
	"github.com/m04kA/SMC-SalonBooking/internal/worker/holdsweeper"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func runServe(configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting salon booking service...")

	loc, err := cfg.Slots.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}
	clock := &getAvailableSlotsUC.RealTimeProvider{Location: loc}

	// Метрики собираются всегда, наружу отдаются только при metrics.enabled
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)

	// Подключаемся к БД
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Connected to database %s@%s:%d", cfg.Database.DBName, cfg.Database.Host, cfg.Database.Port)

	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithPoolStats(
		db,
		metricsCollector,
		metricsCollector,
		cfg.Metrics.ServiceName,
		time.Duration(cfg.Metrics.PoolStatsInterval)*time.Second,
		stopMetricsCh,
	)

	reservations := reservationRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Подключаемся к Redis
	redisClient, err := cache.Connect(
		context.Background(),
		cache.DefaultConnectOptions(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	ledgerStore := ledgerCache.NewStore(redisClient, cfg.Redis.LedgerKey)
	sessionStore := sessionCache.NewStore(
		redisClient,
		cfg.Redis.SessionKeyPrefix,
		time.Duration(cfg.Redis.SubmissionTimeout)*time.Second,
		time.Duration(cfg.Session.MaxAge)*time.Second,
	)

	// Клиент Mercado Pago
	gateway := mercadopago.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.AccessToken,
		time.Duration(cfg.Gateway.Timeout)*time.Second,
		log,
		metricsCollector,
	)

	// Расписание и каталог
	openTime, err := types.NewTimeStringFromString(cfg.Slots.OpenTime)
	if err != nil {
		return fmt.Errorf("invalid slots.open_time: %w", err)
	}
	closeTime, err := types.NewClosingTimeFromString(cfg.Slots.CloseTime)
	if err != nil {
		return fmt.Errorf("invalid slots.close_time: %w", err)
	}
	slots, err := domain.NewDailySlots(openTime, closeTime, cfg.Slots.StepMinutes)
	if err != nil {
		return fmt.Errorf("invalid slot schedule: %w", err)
	}
	policy := domain.BookingPolicy{
		AdvanceBookingDays:      cfg.Slots.AdvanceBookingDays,
		MinBookingNoticeMinutes: cfg.Slots.MinBookingNoticeMinutes,
	}
	catalog := domain.DefaultCatalog()

	// Инициализируем сервисы
	ledgerSvc := ledgerService.NewService(reservations, ledgerStore, metricsCollector, clock, log)
	catalogSvc := catalogService.NewService(catalog, slots, policy)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(reservations, slots, policy, clock, log)

	submitBookingUseCase := submitBookingUC.NewUseCase(
		reservations,
		gateway,
		sessionStore,
		ledgerSvc,
		txMgr,
		metricsCollector,
		catalog,
		slots,
		policy,
		submitBookingUC.Options{
			SiteURL:             cfg.Site.BaseURL,
			PublicKey:           cfg.Gateway.PublicKey,
			HoldTTL:             cfg.Slots.HoldTTL(),
			StatementDescriptor: cfg.Gateway.StatementDescriptor,
		},
		clock,
		log,
	)

	settlePaymentUseCase := settlePaymentUC.NewUseCase(
		reservations,
		gateway,
		ledgerSvc,
		txMgr,
		metricsCollector,
		clock,
		log,
	)

	templates, err := web.ParseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Инициализируем handlers
	index := indexHandler.NewHandler(catalogSvc, templates, cfg.Gateway.PublicKey, clock, log)
	getCatalog := getCatalogHandler.NewHandler(catalogSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getLedger := getLedgerHandler.NewHandler(ledgerSvc, log)
	paymentCallback := paymentCallbackHandler.NewHandler(settlePaymentUseCase, templates, log)

	// Освобождение просроченных удержаний
	sweeper := holdsweeper.NewSweeper(
		reservations,
		ledgerSvc,
		metricsCollector,
		clock,
		log,
		time.Duration(cfg.Slots.SweepInterval)*time.Second,
	)
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweeper.Start(sweeperCtx)

	// Снимок журнала при старте
	ledgerSvc.Publish(context.Background())

	// Настраиваем роутер
	r := mux.NewRouter()

	sessions := middleware.NewSessions(middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		HashKey:    []byte(cfg.Session.HashKey),
		BlockKey:   []byte(cfg.Session.BlockKey),
		MaxAge:     cfg.Session.MaxAge,
		Secure:     cfg.Session.Secure,
	}, log)
	r.Use(sessions.Middleware)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", healthHandler(db, redisClient)).Methods(http.MethodGet)

	// Страницы
	r.HandleFunc("/", index.Handle).Methods(http.MethodGet)
	r.HandleFunc("/success", paymentCallback.Handle(settlePaymentUC.OutcomeSuccess)).Methods(http.MethodGet)
	r.HandleFunc("/failure", paymentCallback.Handle(settlePaymentUC.OutcomeFailure)).Methods(http.MethodGet)
	r.HandleFunc("/pending", paymentCallback.Handle(settlePaymentUC.OutcomePending)).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	if cfg.CORS.Enabled {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         cfg.CORS.MaxAge,
		}))
		log.Info("CORS enabled for %v", cfg.CORS.AllowedOrigins)
	}

	api.HandleFunc("/catalog", getCatalog.Handle).Methods(http.MethodGet)
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/ledger", getLedger.Handle).Methods(http.MethodGet)

	stopLimiterCh := make(chan struct{})
	var submit http.Handler = http.HandlerFunc(submitBooking.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			cfg.RateLimit.TrustForwardedFor,
			log,
		)
		limiter.StartJanitor(time.Minute, stopLimiterCh)
		submit = limiter.Middleware(submit)
		log.Info("Rate limit for bookings: %d/min, burst %d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", submit).Methods(http.MethodPost, http.MethodOptions)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-serverErr:
		log.Error("Server failed: %v", runErr)
	}

	log.Info("Shutting down server...")

	stopSweeper()
	sweeper.Stop()

	close(stopMetricsCh)
	close(stopLimiterCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return runErr
}

// healthHandler проверяет доступность БД и Redis
func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
