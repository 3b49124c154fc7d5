package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	agendaapp "github.com/terreiro/backend/internal/application/agenda"
	auditapp "github.com/terreiro/backend/internal/application/audit"
	backupapp "github.com/terreiro/backend/internal/application/backup"
	communityapp "github.com/terreiro/backend/internal/application/community"
	financeapp "github.com/terreiro/backend/internal/application/finance"
	identityapp "github.com/terreiro/backend/internal/application/identity"
	inventoryapp "github.com/terreiro/backend/internal/application/inventory"
	settingsapp "github.com/terreiro/backend/internal/application/settings"
	supportapp "github.com/terreiro/backend/internal/application/support"
	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/infrastructure/auth"
	"github.com/terreiro/backend/internal/infrastructure/cache"
	"github.com/terreiro/backend/internal/infrastructure/config"
	"github.com/terreiro/backend/internal/infrastructure/event"
	"github.com/terreiro/backend/internal/infrastructure/logger"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
	"github.com/terreiro/backend/internal/infrastructure/remote"
	"github.com/terreiro/backend/internal/infrastructure/scheduler"
	"github.com/terreiro/backend/internal/infrastructure/storage"
	"github.com/terreiro/backend/internal/interfaces/http/handler"
	"github.com/terreiro/backend/internal/interfaces/http/middleware"
	"github.com/terreiro/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Terreiro Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel, 200*time.Millisecond)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Cache store and token blacklist. Redis when enabled, in-process otherwise.
	var (
		cacheStore cache.Store
		blacklist  auth.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		client, err := cache.NewRedisClient(context.Background(), addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		cacheStore = cache.NewRedisStore(client, log)
		blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Redis connected", zap.String("addr", addr))
	} else {
		cacheStore = cache.NewMemoryStore(log)
		blacklist = auth.NewMemoryTokenBlacklist()
	}

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	broadcastRepo := persistence.NewGormBroadcastRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	dataMigrationRepo := persistence.NewGormDataMigrationRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)

	// Event bus with the audit recorder subscribed to lifecycle events
	eventBus := event.NewInMemoryEventBus(log)
	recorder := auditapp.NewRecorder(auditRepo, log)
	eventBus.Subscribe(recorder)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	log.Info("Event bus started", zap.Strings("audit_events", recorder.EventTypes()))

	// Remote document store and sync outbox
	docStore := remote.NewDocumentStore(remote.Config{
		BaseURL: cfg.Remote.BaseURL,
		APIKey:  cfg.Remote.APIKey,
		Timeout: cfg.Remote.Timeout,
	}, log)
	enqueuer := appsync.NewEnqueuer(outboxRepo, cfg.Remote.Enabled, log)

	if cfg.Remote.Enabled && cfg.Outbox.ProcessorEnabled {
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, docStore, event.OutboxProcessorConfig{
			BatchSize:        cfg.Outbox.BatchSize,
			PollInterval:     cfg.Outbox.PollInterval,
			CleanupEnabled:   true,
			CleanupRetention: cfg.Outbox.CleanupRetention,
			CleanupInterval:  time.Hour,
		}, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Outbox.BatchSize),
			zap.Duration("poll_interval", cfg.Outbox.PollInterval),
		)
	}

	// Backup object storage
	var objects storage.ObjectStorage
	if cfg.Storage.Provider == "s3" {
		s3, err := storage.NewS3Storage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		objects = s3
		log.Info("S3 backup storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objects = storage.NewMemoryStorage()
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist, log)
	provisioningService := identityapp.NewProvisioningService(tenantRepo, planRepo, userRepo, settingsRepo, eventBus, enqueuer, log)
	paymentService := identityapp.NewPaymentService(tenantRepo, planRepo, transactionRepo, eventBus, enqueuer, log)
	autoblockService := identityapp.NewAutoblockService(tenantRepo, eventBus, enqueuer, cfg.Scheduler.GraceDays, log)

	var purger identityapp.RemotePurger
	if cfg.Remote.Enabled {
		purger = docStore
	}
	lifecycleService := identityapp.NewLifecycleService(identityapp.LifecycleDeps{
		TenantRepo:      tenantRepo,
		UserRepo:        userRepo,
		MemberRepo:      memberRepo,
		TransactionRepo: transactionRepo,
		ItemRepo:        itemRepo,
		EventRepo:       eventRepo,
		CourseRepo:      courseRepo,
		TicketRepo:      ticketRepo,
		SettingsRepo:    settingsRepo,
		MigrationLedger: dataMigrationRepo,
		Remote:          purger,
		EventBus:        eventBus,
		Enqueuer:        enqueuer,
		Logger:          log,
	})

	// Seed built-in plans so a fresh database is usable immediately
	if err := provisioningService.SeedDefaults(context.Background()); err != nil {
		log.Fatal("Failed to seed default plans", zap.Error(err))
	}

	// Tenant-facing services
	memberService := communityapp.NewMemberService(memberRepo, tenantRepo, planRepo, enqueuer, log)
	itemService := inventoryapp.NewItemService(itemRepo, transactionRepo, enqueuer, log)
	ledgerService := financeapp.NewLedgerService(transactionRepo, memberRepo, enqueuer, log)
	legacyMigration := financeapp.NewLegacyPaymentMigration(transactionRepo, memberRepo, settingsRepo, dataMigrationRepo, log)
	eventService := agendaapp.NewEventService(eventRepo, enqueuer, log)
	courseService := agendaapp.NewCourseService(courseRepo, memberRepo, enqueuer, log)
	settingsService := settingsapp.NewService(settingsRepo, settingsRepo, cacheStore, enqueuer, log)
	ticketService := supportapp.NewTicketService(ticketRepo, enqueuer, log)
	broadcastService := supportapp.NewBroadcastService(broadcastRepo, log)
	auditService := auditapp.NewQueryService(auditRepo)
	backupService := backupapp.NewService(backupapp.Deps{
		TenantRepo:      tenantRepo,
		MemberRepo:      memberRepo,
		TransactionRepo: transactionRepo,
		ItemRepo:        itemRepo,
		EventRepo:       eventRepo,
		CourseRepo:      courseRepo,
		SettingsRepo:    settingsRepo,
		Objects:         objects,
		Logger:          log,
	})
	queueAdmin := appsync.NewQueueAdmin(outboxRepo, log)

	// Auto-block sweep on its own interval
	if cfg.Scheduler.Enabled {
		jobs := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:    true,
			JobTimeout: 10 * time.Minute,
		}, log)
		jobs.Register(autoblockService, cfg.Scheduler.SweepInterval)
		if err := jobs.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Auto-block sweep scheduled",
			zap.Duration("interval", cfg.Scheduler.SweepInterval),
			zap.Int("grace_days", cfg.Scheduler.GraceDays),
		)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Config{
		Logger: log,
		JWT: middleware.JWTConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			SkipPaths: []string{
				"/health",
				"/api/v1/auth/login",
				"/api/v1/auth/refresh",
			},
			Logger: log,
		},
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Gate: middleware.NewTenantGate(tenantRepo, planRepo, log),
		Handlers: router.Handlers{
			Auth:      handler.NewAuthHandler(authService),
			Members:   handler.NewMemberHandler(memberService),
			Inventory: handler.NewInventoryHandler(itemService),
			Agenda:    handler.NewAgendaHandler(eventService, courseService),
			Finance:   handler.NewFinanceHandler(ledgerService, legacyMigration),
			Settings:  handler.NewSettingsHandler(settingsService),
			Support:   handler.NewSupportHandler(ticketService, broadcastService),
			Backup:    handler.NewBackupHandler(backupService),

			MasterTenants: handler.NewMasterTenantHandler(provisioningService, lifecycleService, paymentService, autoblockService),
			MasterPlans:   handler.NewMasterPlanHandler(provisioningService),
			MasterAudit:   handler.NewMasterAuditHandler(auditService),
			MasterSupport: handler.NewMasterSupportHandler(ticketService, broadcastService),
			MasterOutbox:  handler.NewMasterOutboxHandler(queueAdmin),
		},
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
