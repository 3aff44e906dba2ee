package bootstrap

import (
	"context"
	"log"
	"time"

	"cooking-coach-be/internal/config"
	"cooking-coach-be/internal/controller"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/internal/repository/unitofwork"
	"cooking-coach-be/internal/service"
	"cooking-coach-be/pkg/embedding"
	"cooking-coach-be/pkg/ffmpeg"
	"cooking-coach-be/pkg/gcs"
	"cooking-coach-be/pkg/genai"
	"cooking-coach-be/pkg/pipeline"
	"cooking-coach-be/pkg/speech"
	"cooking-coach-be/pkg/tts"

	pktNats "cooking-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const deliveryEventsTopic = "delivery.events"

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	DishController    controller.IDishController
	ChatController    controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := logger.NewIsolatedLogger("logs/pipeline.log")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// Media storage is load-bearing for everything this service does.
	storage, err := gcs.NewClient(ctx, cfg.Gcp.Bucket)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize GCS client: %v", err)
	}

	transcriber, err := speech.NewTranscriber(ctx, cfg.Pipeline.SpeechLanguage)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Speech client: %v", err)
	}
	synthesizer, err := tts.NewSynthesizer(ctx, cfg.Gcp.TTSLanguage, cfg.Gcp.TTSVoice)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize TTS client: %v", err)
	}

	genaiClient := genai.NewClient(cfg.Keys.GoogleGemini, cfg.Ai.GeminiModel)
	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	ffmpegRunner := ffmpeg.NewRunner()

	// 3. Pipeline
	knowledgeRepo := uowFactory.NewUnitOfWork(ctx).KnowledgeDocumentRepository()

	notificationService := service.NewNotificationService(pubSub, deliveryEventsTopic, natsPub, sysLogger)

	orchestrator := pipeline.NewOrchestrator(
		uowFactory,
		pipeline.NewSelfAssessmentStage(storage, transcriber, genaiClient, pipelineLogger),
		pipeline.NewVideoAnalysisStage(storage, genaiClient, ffmpegRunner, pipelineLogger),
		pipeline.NewRetrievalStage(knowledgeRepo, embeddingProvider),
		pipeline.NewCoachingTextStage(genaiClient),
		pipeline.NewNarrationScriptStage(genaiClient),
		pipeline.NewVideoProductionStage(storage, synthesizer, ffmpegRunner, cfg.Pipeline.ClipDurationSec, cfg.Pipeline.OutroAssetPath, pipelineLogger),
		notificationService,
		pipelineLogger,
	)

	consumerService := service.NewConsumerService(natsSub, cfg.Pipeline.TriggerSubject, orchestrator, sysLogger)

	// 4. Services
	signedURLService := service.NewSignedURLService(
		storage,
		rdb,
		time.Duration(cfg.Gcp.SignedURLExpiryDays)*24*time.Hour,
		sysLogger,
	)

	sessionService := service.NewSessionService(
		uowFactory,
		storage,
		signedURLService,
		natsPub,
		cfg.Pipeline.TriggerSubject,
		sysLogger,
	)
	dishService := service.NewDishService(uowFactory)
	chatService := service.NewChatService(uowFactory, signedURLService, sysLogger)

	// 5. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		DishController:    controller.NewDishController(dishService),
		ChatController:    controller.NewChatController(chatService),

		ConsumerService:     consumerService,
		NotificationService: notificationService,
	}
}
