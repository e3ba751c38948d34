package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"digitaltalent/career-wizard/internal/config"
	"digitaltalent/career-wizard/internal/handlers"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
	"digitaltalent/career-wizard/internal/wizard"
)

// collaborators are the four external services the wizard calls.
type collaborators struct {
	parser  services.CVParser
	matcher services.Matcher
	chat    services.ChatClient
	courses services.CourseService
	close   func()
}

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	// Initialize profile store
	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize session store: %v", err)
	}
	defer store.Close()
	profiles := repositories.NewProfileRepository(store)
	log.Printf("✅ Profile store initialized (%s)\n", cfg.Wizard.SessionBackend)

	// Initialize services
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize upload storage: %v", err)
	}

	events := services.NewNoopPublisher()
	if cfg.Events.RabbitMQURL != "" {
		events, err = services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to initialize event publisher: %v", err)
		}
		log.Println("✅ RabbitMQ publisher initialized")
	}
	defer events.Close()

	collab, err := newCollaborators(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize collaborators: %v", err)
	}
	defer collab.close()
	log.Printf("✅ Collaborators initialized (%s mode)\n", cfg.Backend.Mode)

	manager := wizard.NewManager(wizard.Dependencies{
		Profiles: profiles,
		Parser:   collab.parser,
		Storage:  storage,
		Matcher:  collab.matcher,
		Chat:     collab.chat,
		Courses:  collab.courses,
		Jobs:     services.NewStaticJobFeed(),
		Events:   events,
	}, wizard.Options{
		Matching: wizard.MatchingOptions{
			TopK:                cfg.Wizard.TopK,
			AutoAdvanceOnSelect: cfg.Wizard.AutoAdvanceOnSelect,
			AutoAdvanceDelay:    cfg.Wizard.AutoAdvanceDelay,
		},
		CourseLimit: cfg.Wizard.CourseLimit,
		MaxFileSize: cfg.Storage.MaxFileSize,
		SessionTTL:  cfg.Wizard.SessionTTL,
	})

	janitor := wizard.NewJanitor(manager, time.Minute)
	janitor.Start(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Career Wizard API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 10*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.SetupRoutes(app, manager, cfg.Storage.MaxFileSize, cfg.Backend.Mode)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Career Wizard API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/sessions",
				"POST /api/v1/sessions/:token/cv",
				"POST /api/v1/sessions/:token/profile",
				"GET /api/v1/sessions/:token/matching",
				"POST /api/v1/sessions/:token/matching/select",
				"GET /api/v1/sessions/:token/panels",
				"POST /api/v1/sessions/:token/assistant/messages",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		janitor.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (repositories.SessionStore, error) {
	switch cfg.Wizard.SessionBackend {
	case config.SessionBackendSQLite:
		return repositories.NewSQLiteStore(cfg.SQLite.Path)
	case config.SessionBackendPostgres:
		db, err := config.OpenWizardDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormStore(db), nil
	case config.SessionBackendRedis:
		return repositories.NewRedisStore(ctx, cfg.Redis.URL, cfg.Wizard.SessionTTL)
	default:
		return repositories.NewMemoryStore(), nil
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	if cfg.Storage.Backend == config.StorageBackendR2 {
		r2 := cfg.Storage.R2
		return services.NewR2Storage(ctx, r2.AccountID, r2.Bucket, r2.AccessKey, r2.SecretKey)
	}
	return services.NewLocalStorage(cfg.Storage.UploadPath), nil
}

func newCollaborators(ctx context.Context, cfg *config.Config) (*collaborators, error) {
	if cfg.Backend.Mode == config.BackendModeRemote {
		client := services.NewHTTPClient(cfg.Backend.Timeout)
		return &collaborators{
			parser:  services.NewRemoteParser(cfg.Backend.BaseURL, client),
			matcher: services.NewRemoteMatcher(cfg.Backend.BaseURL, client),
			chat:    services.NewRemoteChat(cfg.Backend.BaseURL, client),
			courses: services.NewRemoteCourses(cfg.Backend.BaseURL, client),
			close:   func() {},
		}, nil
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.ChatModel, cfg.Gemini.EmbedModel)
	if err != nil {
		return nil, err
	}
	log.Println("✅ Gemini AI initialized successfully")

	index, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		return nil, err
	}
	if err := index.InitCollection(ctx); err != nil {
		index.Close()
		return nil, err
	}
	log.Println("✅ Qdrant initialized successfully")

	return &collaborators{
		parser:  services.NewLocalParser(services.NewDocumentParser()),
		matcher: services.NewVectorMatcher(gemini, index),
		chat:    services.NewGeminiChat(gemini),
		courses: services.NewFileCourses(cfg.Backend.CoursesFile),
		close:   func() { index.Close() },
	}, nil
}
