package bootstrap

import (
	"context"
	"log"
	"strings"

	"neomind-chat-be/internal/config"
	"neomind-chat-be/internal/constant"
	"neomind-chat-be/internal/controller"
	"neomind-chat-be/internal/pkg/logger"
	"neomind-chat-be/internal/pkg/metrics"
	"neomind-chat-be/internal/pkg/serverutils"
	"neomind-chat-be/internal/pkg/token"
	"neomind-chat-be/internal/pkg/turnlock"
	"neomind-chat-be/internal/repository/contract"
	"neomind-chat-be/internal/repository/memory"
	"neomind-chat-be/internal/repository/redisstore"
	"neomind-chat-be/internal/repository/unitofwork"
	"neomind-chat-be/internal/service"
	"neomind-chat-be/internal/websocket"
	"neomind-chat-be/pkg/chat"
	"neomind-chat-be/pkg/events"
	"neomind-chat-be/pkg/llm"
	"neomind-chat-be/pkg/llm/factory"

	pktNats "neomind-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	ChatbotController controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ChatHandler  *websocket.ChatHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	closers []func() error
}

// Options overrides infrastructure the container would otherwise build from
// config. Tests use it to inject a scripted model.
type Options struct {
	LLMProvider llm.LLMProvider
}

func NewContainer(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, opts Options) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	issuer := token.NewIssuer(cfg.Auth.JwtSecret, cfg.Auth.JwtTTL)
	auth := serverutils.JwtMiddleware(issuer)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub.Close)

	publishers := events.MultiPublisher{events.NewWatermillPublisher(pubSub, cfg.App.EventTopic)}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.App.EventStream)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publishers = append(publishers, natsPub)
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 3. Workspace storage and turn locking
	var (
		workspaces contract.WorkspaceRepository
		locker     turnlock.Locker
		rdb        *redis.Client
	)
	if cfg.App.RedisURL != "" {
		rdb = connectRedis(cfg.App.RedisURL)
	}
	if rdb != nil {
		workspaces = redisstore.NewWorkspaceRepository(rdb, cfg.App.WorkspaceTTL)
		locker = turnlock.NewRedisLocker(rdb, turnlock.DefaultLease)
		c.closers = append(c.closers, rdb.Close)
		log.Printf("[INFO] Using workspace store: REDIS")
	} else {
		workspaces = memory.NewWorkspaceRepository(cfg.App.WorkspaceTTL)
		locker = turnlock.NewMemoryLocker()
		log.Printf("[INFO] Using workspace store: MEMORY")
	}

	// 4. Language model
	llmProvider := opts.LLMProvider
	if llmProvider == nil {
		var err error
		llmProvider, err = factory.NewLLMProvider(factory.Config{
			Provider:      cfg.Ai.LLMProvider,
			Model:         cfg.Ai.LLMModel,
			Temperature:   cfg.Ai.Temperature,
			GeminiAPIKey:  cfg.Keys.GoogleGemini,
			GeminiBaseURL: cfg.Ai.GeminiBaseURL,
			OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}
	var completionOptions []llm.Option
	if cfg.Ai.MaxTokens > 0 {
		completionOptions = append(completionOptions, llm.WithMaxTokens(cfg.Ai.MaxTokens))
	}
	orchestrator := chat.NewOrchestrator(llmProvider, llm.NewPromptTemplate(constant.ChatSystemPromptV1), completionOptions...)

	// 5. Services
	authService := service.NewAuthService(uowFactory, issuer, publishers, sysLogger)
	userService := service.NewUserService(uowFactory)
	chatSessionService := service.NewChatSessionService(uowFactory, publishers, sysLogger)
	chatbotService := service.NewChatbotService(
		workspaces,
		chatSessionService,
		orchestrator,
		locker,
		metrics.TurnRecorder{},
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventTopic, auditLogger, sysLogger)

	// 6. WebSocket Hub
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	c.ChatHandler = websocket.NewChatHandler(c.WebSocketHub, chatbotService.Ask, auth)

	// 7. Controllers
	c.AuthController = controller.NewAuthController(authService, cfg.App.LoginRateLimit)
	c.UserController = controller.NewUserController(userService, auth)
	c.ChatbotController = controller.NewChatbotController(chatbotService, chatSessionService, auth)

	return c, nil
}

// Close releases the bus, NATS and Redis connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[WARN] Shutdown step failed: %v", err)
		}
	}
	c.closers = nil
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

func connectRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: strings.TrimPrefix(url, "redis://"),
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-process state", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
