package main

import (
	"context"
	"log"

	api "noticehub-backend/cmd/api"
	directoryDelivery "noticehub-backend/internal/directory/delivery"
	directorydomain "noticehub-backend/internal/directory/domain"
	directoryRepo "noticehub-backend/internal/directory/repository"
	noticeDelivery "noticehub-backend/internal/notice/delivery"
	"noticehub-backend/internal/notice/scheduler"
	noticedomain "noticehub-backend/internal/notice/domain"
	noticeRepo "noticehub-backend/internal/notice/repository"
	noticeUsecase "noticehub-backend/internal/notice/usecase"
	"noticehub-backend/internal/notice/trigger"
	"noticehub-backend/pkg/config"
	"noticehub-backend/pkg/database"
	"noticehub-backend/pkg/fcm"
	"noticehub-backend/pkg/push"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&noticedomain.Notice{}, &noticedomain.Receipt{}, &noticedomain.DispatchAudit{}, &directorydomain.Recipient{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	recipientRepository := directoryRepo.NewGormRecipientRepository(db, cfg.DirectoryInQueryLimit)
	noticeRepository := noticeRepo.NewGormNoticeRepository(db)
	receiptRepository := noticeRepo.NewGormReceiptRepository(db, cfg.ReceiptWriteBatch, cfg.ReceiptDeleteBatch)
	auditRepository := noticeRepo.NewGormAuditRepository(db)

	// Select the push gateway driver
	var gateway push.Gateway
	switch cfg.PushDriver {
	case "fcm":
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal("Failed to initialize FCM client:", err)
		}
		gateway = fcmClient
	default:
		gateway = push.NewExpoClient(cfg.PushGatewayURL, cfg.PushTimeout)
		log.Printf("[Push] Using HTTP gateway at %s", cfg.PushGatewayURL)
	}

	// Initialize the dispatch pipeline
	resolver := noticeUsecase.NewResolver(recipientRepository, cfg.DirectoryInQueryLimit)
	writer := noticeUsecase.NewReceiptWriter(receiptRepository, cfg.ReceiptWriteBatch)
	batcher := noticeUsecase.NewPushBatcher(gateway, cfg.PushBatchSize)
	dispatcher := noticeUsecase.NewDispatcher(noticeRepository, auditRepository, resolver, writer, batcher)
	sweeper := noticeUsecase.NewSweeper(noticeRepository, receiptRepository, recipientRepository, batcher, cfg.DirectoryInQueryLimit)
	deleter := noticeUsecase.NewCascadeDeleter(noticeRepository, receiptRepository, cfg.ReceiptDeleteBatch)
	noticeUc := noticeUsecase.NewNoticeUsecase(noticeRepository, receiptRepository, recipientRepository)

	// Creation trigger: Pub/Sub event when configured, otherwise an
	// in-process fast path. Both call the same idempotent coordinator.
	var dispatchTrigger noticeDelivery.DispatchTrigger
	if cfg.GoogleProjectID != "" {
		triggerService, err := trigger.NewService(cfg.GoogleProjectID, cfg.GooglePubSubTopic, dispatcher, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Pub/Sub trigger, falling back to local dispatch: %v", err)
			dispatchTrigger = noticeDelivery.NewLocalTrigger(dispatcher, cfg.DispatchTimeout)
		} else {
			go triggerService.Start(context.Background())
			dispatchTrigger = triggerService
		}
	} else {
		dispatchTrigger = noticeDelivery.NewLocalTrigger(dispatcher, cfg.DispatchTimeout)
	}

	// Periodic unread re-notification
	sweepScheduler := scheduler.NewSweepScheduler(sweeper, cfg.SweepInterval, cfg.SweepLookback)
	sweepScheduler.Start()
	defer sweepScheduler.Stop()

	// Initialize HTTP handlers
	noticeHandler := noticeDelivery.NewNoticeHandler(noticeUc, dispatcher, sweeper, deleter, dispatchTrigger, cfg.SweepLookback)
	deviceTokenHandler := directoryDelivery.NewDeviceTokenHandler(recipientRepository)
	handler := api.NewHandler(noticeHandler, deviceTokenHandler, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
