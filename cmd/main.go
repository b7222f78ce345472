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

	bookSlotHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/book_slot"
	disableSchedulingHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/disable_scheduling"
	enableSchedulingHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/enable_scheduling"
	getAvailableSlotsHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/get_available_slots"
	getHistoryHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/get_history"
	getHubConfigHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/get_hub_config"
	getQueueHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/get_queue"
	getSlotHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/get_slot"
	slotActionsHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/slot_actions"
	updateOperatingHoursHandler "github.com/m04kA/SMC-PickupService/internal/api/handlers/update_operating_hours"
	"github.com/m04kA/SMC-PickupService/internal/api/middleware"
	"github.com/m04kA/SMC-PickupService/internal/config"
	"github.com/m04kA/SMC-PickupService/internal/infra/cache"
	"github.com/m04kA/SMC-PickupService/internal/infra/events"
	configRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/config"
	"github.com/m04kA/SMC-PickupService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PickupService/internal/infra/storage/migrations"
	slotRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/slot"
	hubServiceClient "github.com/m04kA/SMC-PickupService/internal/integrations/hubservice"
	orderServiceClient "github.com/m04kA/SMC-PickupService/internal/integrations/orderservice"
	userServiceClient "github.com/m04kA/SMC-PickupService/internal/integrations/userservice"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/availability"
	configService "github.com/m04kA/SMC-PickupService/internal/service/config"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle"
	bookSlotUC "github.com/m04kA/SMC-PickupService/internal/usecase/book_slot"
	getAvailableSlotsUC "github.com/m04kA/SMC-PickupService/internal/usecase/get_available_slots"
	getHistoryUC "github.com/m04kA/SMC-PickupService/internal/usecase/get_history"
	getQueueUC "github.com/m04kA/SMC-PickupService/internal/usecase/get_queue"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
	"github.com/m04kA/SMC-PickupService/pkg/metrics"
	"github.com/m04kA/SMC-PickupService/pkg/txmanager"
)

// slotLedger реестр слотов (PostgreSQL или in-memory)
type slotLedger interface {
	availability.SlotRepository
	lifecycle.SlotRepository
	bookSlotUC.SlotRepository
	getQueueUC.SlotRepository
	getHistoryUC.SlotRepository
}

// transactionManager менеджер транзакций выбранного хранилища
type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// locationClock текущее время в часовом поясе хабов
type locationClock struct {
	loc *time.Location
}

func (c locationClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("PICKUP_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-PickupService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Scheduling.Timezone, err)
	}
	clock := locationClock{loc: location}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		slots   slotLedger
		configs cache.ConfigRepository
		txMgr   transactionManager
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		slots = store.Slots()
		configs = store.Configs()
		txMgr = store.TxManager()
		log.Warn("Using in-memory storage, data will be lost on restart")

	default:
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

		if cfg.Database.Migrate {
			if err := migrations.Apply(context.Background(), db); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database migrations applied")
		}

		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		slots = slotRepo.NewRepository(wrappedDB)
		configs = configRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Инициализируем интеграционных клиентов
	orderClient := orderServiceClient.NewClient(cfg.OrderService.URL, cfg.OrderService.TimeoutDuration(), log)
	hubClient := hubServiceClient.NewClient(cfg.HubService.URL, cfg.HubService.TimeoutDuration(), log)
	log.Info("Integration clients initialized (OrderService=%s, HubService=%s)",
		cfg.OrderService.URL, cfg.HubService.URL)

	var vehicles bookSlotUC.VehicleDirectory
	if cfg.UserService.URL != "" {
		vehicles = userServiceClient.NewClient(cfg.UserService.URL, cfg.UserService.TimeoutDuration(), log)
		log.Info("UserService client initialized (%s), saved vehicles will be used", cfg.UserService.URL)
	}

	// Кэш справочника хабов и настроек расписания
	redisCache := cache.NewDisabled(log)
	if cfg.Cache.Enabled {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.RedisAddr = cfg.Cache.Addr
		cacheCfg.RedisPassword = cfg.Cache.Password
		cacheCfg.RedisDB = cfg.Cache.DB
		if ttl := cfg.Cache.TTL(); ttl > 0 {
			cacheCfg.HubTTL = ttl
			cacheCfg.ConfigTTL = ttl
		}
		redisCache = cache.New(cacheCfg, log)
	}
	defer redisCache.Close()

	hubs := cache.NewCachedHubDirectory(hubClient, redisCache)
	configs = cache.NewCachedConfigRepository(configs, redisCache)

	// Транспорт событий
	var publisher interface {
		events.Publisher
		Close() error
	}
	switch cfg.Events.Driver {
	case config.EventsDriverRabbitMQ:
		rabbit, err := events.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = rabbit
		log.Info("Publishing events to RabbitMQ exchange %s", cfg.Events.Exchange)
	default:
		publisher = events.NewLogPublisher(log)
		log.Info("Events are written to the log only")
	}
	defer publisher.Close()

	emitter := events.NewAsyncEmitter(publisher, log, metricsCollector, cfg.Events.BufferSize)
	defer emitter.Close()

	// Инициализируем сервисы
	accessSvc := access.NewService(hubs, log)
	availabilitySvc := availability.NewService(slots, log)
	configSvc := configService.NewService(configs, accessSvc, txMgr, log)
	lifecycleSvc := lifecycle.NewService(
		slots,
		configs,
		orderClient,
		accessSvc,
		txMgr,
		emitter,
		clock,
		metricsCollector,
		log,
		lifecycle.Options{
			CancellationCutoff: cfg.Scheduling.CancellationCutoff(),
			Location:           location,
		},
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		configs,
		availabilitySvc,
		accessSvc,
		clock,
		log,
		cfg.Scheduling.DefaultDays,
	)
	bookSlotUseCase := bookSlotUC.NewUseCase(
		slots,
		configs,
		availabilitySvc,
		orderClient,
		accessSvc,
		vehicles,
		txMgr,
		emitter,
		clock,
		metricsCollector,
		log,
	)
	getQueueUseCase := getQueueUC.NewUseCase(slots, accessSvc, clock, log)
	getHistoryUseCase := getHistoryUC.NewUseCase(slots, accessSvc, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getHubConfig := getHubConfigHandler.NewHandler(configSvc, log)
	getQueue := getQueueHandler.NewHandler(getQueueUseCase, log)
	enableScheduling := enableSchedulingHandler.NewHandler(configSvc, log)
	disableScheduling := disableSchedulingHandler.NewHandler(configSvc, log)
	updateOperatingHours := updateOperatingHoursHandler.NewHandler(configSvc, log)
	bookSlot := bookSlotHandler.NewHandler(bookSlotUseCase, log)
	getHistory := getHistoryHandler.NewHandler(getHistoryUseCase, log)
	getSlot := getSlotHandler.NewHandler(lifecycleSvc, log)
	slotActions := slotActionsHandler.NewHandler(lifecycleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/hubs/{hubId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/hubs/{hubId}/config", getHubConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/hubs/{hubId}/queue", getQueue.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление расписанием хаба ---
	protected.HandleFunc("/hubs/{hubId}/config", enableScheduling.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/hubs/{hubId}/config", disableScheduling.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/hubs/{hubId}/config/hours", updateOperatingHours.Handle).Methods(http.MethodPut)

	// --- Бронирование и история ---
	protected.HandleFunc("/slots", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/history", getHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)

	// --- Жизненный цикл слота ---
	protected.HandleFunc("/slots/{slotId}/notify", slotActions.Notify).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/arrive", slotActions.Arrive).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/start", slotActions.Start).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/complete", slotActions.Complete).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/no-show", slotActions.NoShow).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/cancel", slotActions.Cancel).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/rating", slotActions.Rate).Methods(http.MethodPut)

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
	close(stopMetricsCh)

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
