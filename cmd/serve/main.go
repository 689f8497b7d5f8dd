// Package classification Campus Calendar Manager Service.
//
// Calendar scheduling service for students. Recurring events are stored once per series and
// expanded into occurrences on read
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//    Version: 0.1.0
//    License: TODO
//    Contact: <info@campus-compass.app> https://github.com/campus-compass/calendar-manager
//
//    Consumes:
//      - application/json
//
//    Produces:
//      - application/json
//
//    SecurityDefinitions:
//      oauth2:
//        type: oauth2
//        tokenUrl: /tokens
//        refreshUrl: /refresh
//        flow: password
// swagger:meta
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/campus-compass/calendar-manager/internal/handler"
	cmlog "github.com/campus-compass/calendar-manager/internal/log"
	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/campus-compass/calendar-manager/internal/server"
	"github.com/campus-compass/calendar-manager/internal/tracing"
	"github.com/campus-compass/calendar-manager/pkg/calendar"
	"github.com/campus-compass/calendar-manager/pkg/config"
	"github.com/campus-compass/calendar-manager/pkg/dashboard"
	"github.com/campus-compass/calendar-manager/pkg/guest"
	"github.com/campus-compass/calendar-manager/pkg/reminder"
	"github.com/campus-compass/calendar-manager/pkg/storage"
	"github.com/campus-compass/calendar-manager/pkg/stream"
	"github.com/campus-compass/calendar-manager/pkg/task"
	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/campus-compass/calendar-manager/pkg/user"
	"github.com/go-mail/mail"
	"github.com/robfig/cron/v3"
)

const (
	serviceName     = "calendar-manager"
	reminderTimeout = 50 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := slog.New(cmlog.New(cmlog.NewPrettyJSONHandler(os.Stdout, &cmlog.PrettyJSONHandlerOptions{
		HandlerOptions: slog.HandlerOptions{AddSource: true},
		PrettyPrint:    cfg.Environment == "development",
	})))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(serviceName, cfg.JaegerCollectorURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to shut down tracing", "error", err)
		}
	}()

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redis, err := storage.NewRedis(cfg.Redis.Host, cfg.Redis.Port)
	if err != nil {
		return err
	}

	authentication := cfg.Authentication
	privateKey, err := authentication.GetPrivateKey()
	if err != nil {
		return err
	}
	tokenService, err := token.NewService(logger, token.NewRepository(redis), privateKey, authentication.AccessTokenExpirationSeconds, authentication.RefreshTokenSecretKey, authentication.RefreshTokenExpirationSeconds)
	if err != nil {
		return err
	}

	userService := user.NewService(user.NewRepository(db))

	broker := stream.NewBroker(logger)

	expander := calendar.NewExpander()
	if cfg.OccurrenceCacheTTLSeconds > 0 {
		expander = calendar.NewCachedExpander(logger, redis, expander, time.Duration(cfg.OccurrenceCacheTTLSeconds)*time.Second)
	}
	calendarService := calendar.NewService(logger, calendar.NewRepository(db), expander, broker)

	calendarHandler := calendar.NewHandler(calendarService, nil)
	if cfg.S3.Enabled() {
		awsS3Client, err := storage.NewAWSS3Client(ctx, cfg.S3)
		if err != nil {
			return err
		}
		s3Client := storage.NewS3Client(logger, manager.NewUploader(awsS3Client), s3.NewPresignClient(awsS3Client))
		feedService := calendar.NewFeedService(logger, calendarService, s3Client, cfg.S3.Bucket, time.Duration(cfg.S3.FeedURLExpirationSeconds)*time.Second)
		calendarHandler = calendar.NewHandler(calendarService, feedService)
	}

	taskService := task.NewService(task.NewRepository(db), broker)

	guestService, err := guest.NewService(logger, userService, calendarService, taskService, time.Now)
	if err != nil {
		return err
	}

	dashboardService := dashboard.NewService(calendarService, taskService)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var dispatcher *reminder.Dispatcher
	if cfg.SMTP.Enabled() {
		dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		dispatcher = reminder.NewDispatcher(logger, calendarService, userService, broker, dialer)
	} else {
		dispatcher = reminder.NewDispatcher(logger, calendarService, userService, broker, nil)
	}

	scheduler := cron.New()
	if _, err := reminder.Schedule(scheduler, cfg.ReminderSchedule, reminder.NewJob(logger, dispatcher, time.Now, reminderTimeout)); err != nil {
		return fmt.Errorf("failed to schedule reminders: %v", err)
	}
	if _, err := scheduler.AddFunc("@every 10m", rateLimiter.Prune); err != nil {
		return fmt.Errorf("failed to schedule rate limiter pruning: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	authenticationMiddleware := middleware.NewAuthentication(logger, &privateKey.PublicKey, userService)
	authorizationMiddleware := middleware.NewAuthorization(logger)

	r := server.GetEngine(logger, cfg.BasePath)
	router := r.Group(cfg.BasePath)
	user.Routes(router, authenticationMiddleware, rateLimiter, user.NewHandler(cfg, userService, tokenService))
	guest.Routes(router, rateLimiter, guest.NewHandler(cfg, guestService, tokenService))
	calendar.Routes(router, authenticationMiddleware, authorizationMiddleware, calendarHandler)
	task.Routes(router, authenticationMiddleware, authorizationMiddleware, task.NewHandler(taskService))
	dashboard.Routes(router, authenticationMiddleware, dashboard.NewHandler(dashboardService))
	stream.Routes(router, authenticationMiddleware, stream.NewHandler(broker))

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Listening", "address", srv.Addr, "basePath", cfg.BasePath)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
