package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"chat-budgeting-be/internal/config"
	"chat-budgeting-be/internal/controller"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/repository/implementation"
	"chat-budgeting-be/internal/repository/memory"
	"chat-budgeting-be/internal/repository/unitofwork"
	"chat-budgeting-be/internal/service"
	auditEvents "chat-budgeting-be/pkg/audit/events"
	"chat-budgeting-be/pkg/database"
	"chat-budgeting-be/pkg/embedding"
	"chat-budgeting-be/pkg/embedding/jina"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/llm/anthropic"
	"chat-budgeting-be/pkg/llm/gemini"
	"chat-budgeting-be/pkg/llm/ollama"
	"chat-budgeting-be/pkg/llm/openrouter"
	"chat-budgeting-be/pkg/llm/router"
	"chat-budgeting-be/pkg/lock"
	"chat-budgeting-be/pkg/nl2sql/executor"
	"chat-budgeting-be/pkg/nl2sql/generation"
	"chat-budgeting-be/pkg/nl2sql/history"
	"chat-budgeting-be/pkg/nl2sql/intent"
	"chat-budgeting-be/pkg/nl2sql/reasoning"
	"chat-budgeting-be/pkg/nl2sql/retrieval"

	pktNats "chat-budgeting-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const queryEmbeddingTTL = 10 * time.Minute

type Container struct {
	// Controllers
	NL2SQLController controller.INL2SQLController
	RoomController   controller.IRoomController

	// Services (the CLI drives NL2SQLService directly)
	NL2SQLService service.INL2SQLService
	RoomService   service.IRoomService

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		logger.NewWatermillAdapter(sysLogger, "WATERMILL"),
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	queryEmbedder := memory.NewEmbeddingCache(embeddingProvider, queryEmbeddingTTL)

	providers := map[llm.Kind]llm.LLMProvider{
		llm.KindGemini: gemini.NewGeminiProvider(cfg.Keys.GoogleGemini, ""),
		llm.KindOpenRouter: openrouter.NewOpenRouterProvider(openrouter.Config{
			APIKey:  cfg.Keys.OpenRouter,
			BaseURL: cfg.Ai.OpenRouterBaseURL,
			AppName: cfg.Ai.OpenRouterAppName,
			SiteURL: cfg.Ai.OpenRouterSiteURL,
		}),
		llm.KindOllama: ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, ""),
	}
	if cfg.Keys.Anthropic != "" {
		providers[llm.KindAnthropic] = anthropic.NewAnthropicProvider(cfg.Keys.Anthropic)
	}

	table, err := router.LoadTable(cfg.Ai.ModelRoutingFile)
	if err != nil {
		return nil, err
	}
	if cfg.Ai.DefaultLLMProvider != "" {
		table.DefaultProvider = cfg.Ai.DefaultLLMProvider
	}
	models, err := router.New(table, providers)
	if err != nil {
		return nil, fmt.Errorf("model routing: %w", err)
	}

	// 4. Query target
	queryDB := db
	if cfg.Database.QueryConnection != "" {
		queryDB, err = database.NewQueryDB(cfg.Database.QueryDriver, cfg.Database.QueryConnection)
		if err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}
	}
	sqlDB, err := queryDB.DB()
	if err != nil {
		return nil, fmt.Errorf("query database handle: %w", err)
	}

	// 5. Infrastructure
	// NATS
	var runSink auditEvents.Sink
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			runSink = natsPub
		}
	}

	// Redis
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}
	roomLock := lock.NewRedisRoomLock(rdb, cfg.Pipeline.RoomLockTTL, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub)
	auditService, err := service.NewAuditService(
		pubSub,
		uowFactory,
		embeddingProvider,
		auditEvents.NewNatsPublisher(runSink, sysLogger),
		sysLogger,
		cfg.Audit,
	)
	if err != nil {
		return nil, fmt.Errorf("audit service: %w", err)
	}

	roomService := service.NewRoomService(uowFactory, sysLogger)
	nl2sqlService := service.NewNL2SQLService(
		models,
		service.NL2SQLStages{
			Classifier: intent.NewClassifier(llmLogger),
			Retriever:  retrieval.NewRetriever(queryEmbedder, implementation.NewSchemaDocumentRepository(db), cfg.Ai.SchemaTopK),
			Generator:  generation.NewGenerator(llmLogger),
			Executor:   executor.New(sqlDB, cfg.Database.QueryReadOnly, cfg.Pipeline.SQLExecutionTimeout),
			Summarizer: reasoning.NewSummarizer(llmLogger, cfg.Ai.ReasoningRowCharLimit),
		},
		history.NewStore(uowFactory, cfg.Ai.HistoryPageSize),
		roomService,
		roomLock,
		publisherService,
		sysLogger,
		cfg.Pipeline,
		cfg.Ai.HistoryWindow,
	)

	c := &Container{
		NL2SQLController: controller.NewNL2SQLController(nl2sqlService, sysLogger),
		RoomController:   controller.NewRoomController(roomService),
		NL2SQLService:    nl2sqlService,
		RoomService:      roomService,
		AuditService:     auditService,
		Logger:           sysLogger,
	}
	if natsPub != nil {
		c.closers = append(c.closers, natsPub.Close)
	}
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	c.closers = append(c.closers,
		func() { _ = auditService.Close() },
		func() { _ = sysLogger.Sync() },
		func() { _ = llmLogger.Sync() },
	)
	return c, nil
}

// Close releases connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
