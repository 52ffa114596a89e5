package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/miracle078/adogent/internal/config"
	"github.com/miracle078/adogent/internal/domain/agent"
	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/domain/user"
	"github.com/miracle078/adogent/internal/infrastructure/crontab"
	"github.com/miracle078/adogent/internal/infrastructure/database"
	"github.com/miracle078/adogent/internal/infrastructure/database/repository/categoryrepo"
	"github.com/miracle078/adogent/internal/infrastructure/database/repository/productrepo"
	"github.com/miracle078/adogent/internal/infrastructure/database/repository/userrepo"
	"github.com/miracle078/adogent/internal/infrastructure/logger"
	"github.com/miracle078/adogent/internal/infrastructure/media"
	"github.com/miracle078/adogent/internal/infrastructure/observability"
	"github.com/miracle078/adogent/internal/interfaces/httpserver"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/aihandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/categoryhandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/imagehandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/producthandler"
	v1 "github.com/miracle078/adogent/internal/interfaces/httpserver/routes/v1"
	"github.com/miracle078/adogent/internal/utils/httpclients"
	"github.com/miracle078/adogent/internal/utils/httpclients/chat"

	_ "github.com/miracle078/adogent/internal/infrastructure/database/dbschema"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("init logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	db, err := database.NewDB(cfg.DatabaseURL, cfg.DBPostgresqlRead1DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if cfg.AutoMigrate {
		if err := database.Migration(db, "adogent."); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
	}

	// domain services
	catalogService := catalog.NewService(
		productrepo.NewProductGormRepository(db),
		categoryrepo.NewCategoryGormRepository(db),
	)
	userService := user.NewService(
		userrepo.NewUserGormRepository(db),
		userrepo.NewSessionGormRepository(db),
		user.AuthConfig{
			Secret:          cfg.JWTSecret,
			AccessLifetime:  cfg.AccessTokenLifetime,
			RefreshLifetime: cfg.RefreshTokenLifetime,
			Issuer:          cfg.JWTIssuer,
		},
	)
	aiService := buildAIService(cfg, catalogService, log)

	storage := media.NewCloudinaryClient(cfg, log)

	// HTTP surface
	v1Route := v1.NewV1Route(
		userService,
		authhandler.NewAuthHandler(userService, log),
		producthandler.NewProductHandler(catalogService, log),
		categoryhandler.NewCategoryHandler(catalogService, log),
		imagehandler.NewImageHandler(catalogService, storage, log),
		aihandler.NewAIHandler(aiService, storage, log),
		log,
	)
	server := httpserver.NewHTTPServer(v1Route, db, cfg, log)
	background := crontab.NewCrontab(catalogService, aiService)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return server.Run(egCtx)
	})
	eg.Go(func() error {
		return background.Run(egCtx)
	})
	eg.Go(func() error {
		return runMetricsServer(egCtx, cfg.MetricsPort, log)
	})

	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}

// buildAIService wires the four agents over the Groq and Ollama backends.
func buildAIService(cfg *config.Config, catalogService *catalog.Service, log zerolog.Logger) *agent.Service {
	groqClient := chat.NewCompletionClient(httpclients.NewClient("groq"), "groq", cfg.GroqBaseURL)
	ollamaClient := chat.NewCompletionClient(httpclients.NewClient("ollama"), "ollama", cfg.OllamaBaseURL)

	groqBackend := agent.NewCompletionBackend(groqClient, cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqMaxTokens, cfg.GroqTemperature)
	ollamaBackend := agent.NewCompletionBackend(ollamaClient, "", cfg.OllamaModel, cfg.OllamaMaxTokens, cfg.OllamaTemperature)

	newStore := func() *agent.Store {
		return agent.NewStore(cfg.MaxConversationHistory, cfg.EnableConversationContext)
	}

	generalChat := agent.NewChatAgent("groq_agent", groqBackend, newStore(), cfg.Personas, cfg.MaxMessageLength, 0.85, log)
	productChat := agent.NewChatAgent("product_agent", groqBackend, newStore(), cfg.Personas, cfg.MaxMessageLength, 0.85, log)
	recommendationChat := agent.NewChatAgent("recommendation_agent", groqBackend, newStore(), cfg.Personas, cfg.MaxMessageLength, 0.85, log)
	voiceChat := agent.NewChatAgent("voice_agent", ollamaBackend, newStore(), cfg.Personas, cfg.MaxMessageLength, 0.80, log)

	return agent.NewService(
		generalChat,
		agent.NewProductAgent(productChat, catalogService, log),
		agent.NewRecommendationAgent(recommendationChat, catalogService, cfg.ProductRecommendationLimit, log),
		agent.NewVoiceAgent(voiceChat, log),
		log,
	)
}

// runMetricsServer exposes prometheus metrics on a dedicated port.
func runMetricsServer(ctx context.Context, port int, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Info().Int("port", port).Msg("metrics server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
