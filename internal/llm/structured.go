package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/opsgate/opsgate/internal/logger"
)

const defaultMaxRetries = 3

// Request describes one structured-output generation.
type Request struct {
	System string
	User   string
	Schema *Schema

	Model       string
	Temperature float64
	MaxTokens   int
	// MaxRetries is the total attempt budget, first call included.
	// Zero means the default of 3.
	MaxRetries int
}

// AnswerStructured asks the model for a JSON object matching
// req.Schema and validates the reply. Failed attempts (transport
// error, empty body, bad JSON, schema mismatch) are retried with
// linear backoff and an increasingly emphatic JSON-only instruction
// until the attempt budget runs out.
func AnswerStructured(ctx context.Context, client ChatClient, req Request) (map[string]any, error) {
	return answerStructured(ctx, client, req, time.Sleep)
}

func answerStructured(ctx context.Context, client ChatClient, req Request, sleep func(time.Duration)) (map[string]any, error) {
	attempts := req.MaxRetries
	if attempts <= 0 {
		attempts = defaultMaxRetries
	}

	system := req.System + "\n\nReturn only a raw JSON object of this exact shape, with no surrounding text or markdown:\n" + req.Schema.Shape()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		systemPrompt, userPrompt := system, req.User
		if attempt > 1 {
			// Each retry repeats the instruction once more.
			emphasis := "\n\n" + strings.TrimSpace(strings.Repeat("IMPORTANT: return ONLY valid JSON, no prose, no markdown. ", attempt-1))
			systemPrompt += emphasis
			userPrompt += emphasis
		}

		result, err := tryStructured(ctx, client, req, systemPrompt, userPrompt)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Log.Warn("structured generation attempt failed", "attempt", attempt, "of", attempts, "error", err)

		if attempt < attempts {
			sleep(time.Duration(attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("structured generation failed after %d attempts: %w", attempts, lastErr)
}

func tryStructured(ctx context.Context, client ChatClient, req Request, system, user string) (map[string]any, error) {
	raw, err := client.Complete(ctx, system, user, CompleteOptions{
		Model:        req.Model,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty response body")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := req.Schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("response does not match schema: %w", err)
	}
	return parsed, nil
}
