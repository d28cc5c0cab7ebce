package setup

import (
	"context"
	"fmt"

	"github.com/opsgate/opsgate/internal/config"
	"github.com/opsgate/opsgate/internal/email"
	"github.com/opsgate/opsgate/internal/handler"
	"github.com/opsgate/opsgate/internal/jwt"
	"github.com/opsgate/opsgate/internal/llm"
	"github.com/opsgate/opsgate/internal/middleware"
	"github.com/opsgate/opsgate/internal/objstore"
	"github.com/opsgate/opsgate/internal/service"
	"github.com/opsgate/opsgate/internal/storage/pg"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(&cfg.Private.Pg)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	sender, err := email.New(&cfg.Private.Email)
	if err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	access := service.NewAccessPolicy(cfg.Public.AllowedDomains, storage)
	auth := service.NewAuth(storage, sender, jwtService, access, cfg.Public.BaseURL, cfg.MagicLinkTTL())
	whitelist := service.NewWhitelist(storage, sender)

	uploader, err := objstore.New(&cfg.Private.S3)
	if err != nil {
		return nil, fmt.Errorf("objstore: %w", err)
	}

	llmClient := llm.NewClient(&cfg.Private.LLM)
	embedder, err := llm.NewGenAIEmbedder(ctx, cfg.Private.LLM.GeminiAPIKey, cfg.Private.LLM.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	h := handler.New(auth, whitelist, uploader, llmClient, embedder, storage, cfg)
	authMw := middleware.NewAuth(jwtService)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: authMw,
		Config:         cfg,
	}, nil
}
