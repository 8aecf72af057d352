package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"courtbook/internal/config"
	"courtbook/internal/database"
	"courtbook/internal/middleware"
	"courtbook/internal/modules/booking"
	"courtbook/internal/modules/coach"
	"courtbook/internal/modules/notification"
	"courtbook/internal/modules/payment"
	"courtbook/internal/modules/schedule"
	"courtbook/internal/pkg/clock"
	jwtsvc "courtbook/internal/pkg/jwt"
	"courtbook/internal/pkg/logger"
	"courtbook/internal/pkg/validator"
	"courtbook/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(cfg.AppEnv)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, lg); err != nil {
			return err
		}
	}

	bookingRepo := repository.NewBookingRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	clk := clock.NewZone(cfg.Location)
	rules := schedule.Rules{GroupCapacity: cfg.GroupCapacity, Policy: cfg.Exclusion}
	hub := schedule.NewHub(cfg.CORSOrigins, lg)

	senders := []notification.Sender{notification.NewOutboxSender(notificationRepo)}
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		senders = append(senders, notification.NewTelegramSender(b, cfg.TelegramAdminChatID))
		lg.Info("telegram notifications enabled")
	}
	dispatcher := notification.NewDispatcher(cfg.NotifyQueue, cfg.NotifyWorkers, lg, senders...)

	var locker booking.SlotLocker = booking.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		locker = booking.NewRedisLocker(rdb, cfg.SlotLockTTL)
		lg.Info("using redis slot locks", zap.String("addr", cfg.RedisAddr))
	}

	coachService := coach.NewService(coachRepo, cfg.Location, hub, lg)
	scheduleService := schedule.NewService(overrideRepo, bookingRepo, coachService, clk, rules, hub, lg)
	engine := booking.NewEngine(booking.Deps{
		Bookings:  bookingRepo,
		Overrides: overrideRepo,
		Coaches:   coachService,
		Locker:    locker,
		Clock:     clk,
		Notifier:  dispatcher,
		Events:    hub,
	}, booking.EngineConfig{
		MaxWeeks: cfg.MaxRecurringWeeks,
		Rules:    rules,
		Pricing:  cfg.Pricing,
	}, lg)
	bookingService := booking.NewService(bookingRepo, clk, dispatcher, hub, lg)
	sweeper := booking.NewSweeper(bookingRepo, clk, cfg.SweepInterval, lg)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	scheduleHandler := schedule.NewHandler(scheduleService, hub)
	coachHandler := coach.NewHandler(coachService)
	bookingHandler := booking.NewHandler(engine, bookingService, payment.ReferenceVerifier{}, cfg.Pricing)
	paymentHandler := payment.NewHandler(bookingRepo, lg)
	notificationHandler := notification.NewHandler(notificationRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Setup()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))
	r.Use(middleware.ErrorLogger(lg))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "live_subscribers": hub.Subscribers()})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		scheduleHandler.RegisterPublicRoutes(v1)
		coachHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			staff := protected.Group("/")
			staff.Use(middleware.CoachOrAdmin())
			bookingHandler.RegisterStaffRoutes(staff)
			coachHandler.RegisterCoachRoutes(staff)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			scheduleHandler.RegisterAdminRoutes(admin)
			coachHandler.RegisterAdminRoutes(admin)
			paymentHandler.RegisterAdminRoutes(admin)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error {
		lg.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
