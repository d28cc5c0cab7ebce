// Package handler contains the HTTP endpoints. Handlers decode and
// validate requests, call the service layer and translate errors to
// status codes; they hold no business logic themselves.
package handler

import (
	"context"
	"io"

	"github.com/opsgate/opsgate/internal/config"
	"github.com/opsgate/opsgate/internal/llm"
	"github.com/opsgate/opsgate/internal/objstore"
	"github.com/opsgate/opsgate/internal/service"
)

// LLMClient is the provider surface the tool endpoints need.
// *llm.Client satisfies it.
type LLMClient interface {
	llm.ChatClient
	Transcribe(ctx context.Context, filename string, audio io.Reader, model string) (string, error)
	GenerateImage(ctx context.Context, prompt, model, size string) (llm.GeneratedImage, error)
}

type Handler struct {
	auth      service.AuthService
	whitelist service.WhitelistService
	uploader  objstore.Uploader
	llm       LLMClient
	embedder  llm.Embedder
	health    Pinger
	cfg       *config.Config
}

func New(auth service.AuthService, whitelist service.WhitelistService, uploader objstore.Uploader, llmClient LLMClient, embedder llm.Embedder, health Pinger, cfg *config.Config) *Handler {
	return &Handler{auth, whitelist, uploader, llmClient, embedder, health, cfg}
}
