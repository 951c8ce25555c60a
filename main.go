package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonai/config"
	"salonai/cron"
	"salonai/database"
	reservationRepo "salonai/database/repository/reservation"
	"salonai/handlers"
	"salonai/middleware"
	"salonai/models"
	"salonai/routes"
	"salonai/services/audit"
	"salonai/services/booking"
	"salonai/services/calendar"
	"salonai/services/conversation"
	"salonai/services/faq"
	"salonai/services/line"
	"salonai/services/notification"
	"salonai/services/reminder"
	"salonai/services/schedule"
	"salonai/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	loc := config.Location()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		database.MongoClient)

	ctx := context.Background()

	catalog, err := models.LoadCatalog(config.AppConfig.CatalogPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load catalog: %v", err)
	}

	hours, err := schedule.HoursFromConfig()
	if err != nil {
		logger.Sugar().Fatalf("main: invalid business hours configuration: %v", err)
	}

	// Gateways.
	var calGateway calendar.Gateway
	calGateway, err = calendar.NewGoogleGateway(ctx,
		[]byte(config.AppConfig.GoogleServiceAccountJSON),
		config.AppConfig.GoogleCalendarID, loc)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar gateway: %v", err)
	}

	lineClient := line.NewClient(config.AppConfig.LineChannelAccessToken)

	var recorder audit.Recorder = audit.NopRecorder{}
	if config.AppConfig.GoogleSheetID != "" {
		recorder, err = audit.NewSheetsRecorder(ctx,
			[]byte(config.AppConfig.GoogleServiceAccountJSON),
			config.AppConfig.GoogleSheetID, loc)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize audit recorder: %v", err)
		}
	}

	// Services.
	availability := &schedule.DefaultAvailabilityEngine{
		Calendar: calGateway,
		Hours:    hours,
	}

	reservations := reservationRepo.NewMongoReservationRepo()

	validator := &booking.DefaultModificationValidator{
		Availability: availability,
		Calendar:     calGateway,
		Reservations: reservations,
		Catalog:      catalog,
	}

	var slackNotifier *notification.SlackNotifier
	if config.AppConfig.SlackWebhookURL != "" {
		slackNotifier = notification.NewSlackNotifier(config.AppConfig.SlackWebhookURL)
	}
	var lineNotifier *notification.LineNotifier
	if config.AppConfig.LineManagerUserID != "" {
		lineNotifier = notification.NewLineNotifier(lineClient, config.AppConfig.LineManagerUserID)
	}
	notifier := notification.NewManager(
		config.AppConfig.NotificationMethod, slackNotifier, lineNotifier)

	sessionStore := conversation.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMinutes)*time.Minute,
	)

	engine := conversation.NewEngine(sessionStore, reservations, validator,
		availability, calGateway, catalog, notifier, nil)

	kb, err := faq.LoadKB(config.AppConfig.KBPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load knowledge base: %v", err)
	}
	var generator faq.TextGenerator
	if config.AppConfig.GeminiAPIKey != "" {
		generator, err = faq.NewGeminiClient(ctx, config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Warn("main: Gemini unavailable, FAQ answers will use KB values directly", zap.Error(err))
			generator = nil
		}
	}
	faqService := faq.NewDefaultFAQService(kb, generator)

	// Reminder pipeline.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	reminderService := reminder.NewService(calGateway, asynqClient, notifier, loc)
	if config.AppConfig.ReminderEnabled {
		cron.InitReminderWorker(lineClient)
		scheduler, err := cron.StartReminderScheduler(reminderService, loc)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to start reminder scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	// HTTP surface.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	webhookHandler := handlers.NewWebhookHandler(engine, faqService, lineClient,
		recorder, config.AppConfig.LineChannelSecret)
	adminHandler := handlers.NewAdminHandler(availability, calGateway, reminderService)

	routes.RegisterRoutes(router, webhookHandler, adminHandler)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
