package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/studyhall-backend/internal/channels"
	"github.com/yungbote/studyhall-backend/internal/clients/sendgrid"
	"github.com/yungbote/studyhall-backend/internal/db"
	"github.com/yungbote/studyhall-backend/internal/handlers"
	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/realtime"
	"github.com/yungbote/studyhall-backend/internal/realtime/bus"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/server"
	"github.com/yungbote/studyhall-backend/internal/services"
	"github.com/yungbote/studyhall-backend/internal/sse"
	"github.com/yungbote/studyhall-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	tutorRepo := repos.NewTutorRepo(thePG, log)
	preferenceRepo := repos.NewPreferenceRepo(thePG, log)
	calendarEventRepo := repos.NewCalendarEventRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)
	usageLogRepo := repos.NewUsageLogRepo(thePG, log)
	queueRepo := repos.NewNotificationQueueRepo(thePG, log)
	deliveryLogRepo := repos.NewDeliveryLogRepo(thePG, log)
	subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)

	// Realtime: hub always, redis fanout when configured.
	log.Info("Setting up SSE hub...")
	hub := sse.NewHub(log)
	var emitter realtime.Emitter = &sse.HubEmitter{Hub: hub}
	if os.Getenv("REDIS_ADDR") != "" {
		redisBus, err := bus.NewRedisBus(log)
		if err != nil {
			log.Warn("Redis bus init failed, using in-process hub only", "error", err)
		} else {
			if err := redisBus.StartForwarder(context.Background(), hub.Broadcast); err != nil {
				log.Warn("Redis forwarder failed to start", "error", err)
			}
			emitter = &bus.BusEmitter{Bus: redisBus}
		}
	}

	// Email is optional: without SENDGRID_API_KEY the email channel reports
	// "nothing to do" per item instead of failing.
	var emailClient sendgrid.Client
	if os.Getenv("SENDGRID_API_KEY") != "" {
		emailClient, err = sendgrid.NewFromEnv(log)
		if err != nil {
			log.Warn("Sendgrid init failed, email channel disabled", "error", err)
		}
	} else {
		log.Warn("SENDGRID_API_KEY not set, email channel disabled")
	}

	// Services
	log.Info("Setting up services...")
	preferenceService := services.NewPreferenceService(thePG, log, preferenceRepo)
	quietHoursService := services.NewQuietHoursService(log, preferenceService)
	activityService := services.NewActivityService(thePG, log, activityRepo)
	reminderService := services.NewCalendarReminderService(thePG, log, preferenceService, quietHoursService, calendarEventRepo, queueRepo)
	quotaMonitor := services.NewQuotaMonitor(thePG, log, preferenceService, quietHoursService, usageLogRepo, queueRepo)
	inboxService := services.NewInboxService(thePG, log, queueRepo, deliveryLogRepo, emitter)

	senders := []channels.Sender{
		channels.NewPushSender(log, subscriptionRepo),
		channels.NewEmailSender(log, emailClient, userRepo),
		channels.NewInAppSender(log, emitter),
	}

	dispatchInterval := time.Duration(utils.GetEnvAsInt("DISPATCH_INTERVAL_SECONDS", 60, log)) * time.Second
	scanInterval := time.Duration(utils.GetEnvAsInt("BEHAVIOR_SCAN_INTERVAL_HOURS", 24, log)) * time.Hour

	dispatcher := services.NewDeliveryDispatcher(thePG, log, queueRepo, deliveryLogRepo, calendarEventRepo, senders, dispatchInterval)
	scanner := services.NewBehaviorScanner(thePG, log, preferenceService, quietHoursService, userRepo, tutorRepo, activityRepo, queueRepo, scanInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)
	scanner.Start(ctx)

	// Handlers + router
	log.Info("Setting up handlers...")
	routerCfg := server.RouterConfig{
		RequestUser:          middleware.NewRequestUserMiddleware(log),
		PreferencesHandler:   handlers.NewPreferencesHandler(preferenceService),
		NotificationsHandler: handlers.NewNotificationsHandler(inboxService),
		SubscriptionsHandler: handlers.NewSubscriptionsHandler(subscriptionRepo),
		ActivityHandler:      handlers.NewActivityHandler(activityService),
		UsageHandler:         handlers.NewUsageHandler(quotaMonitor),
		CalendarHandler:      handlers.NewCalendarHandler(log, calendarEventRepo, reminderService),
		SSEHandler:           handlers.NewSSEHandler(hub),
	}
	router := server.NewRouter(routerCfg)

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting HTTP server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}
