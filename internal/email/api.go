package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/opsgate/opsgate/internal/config"
	"github.com/opsgate/opsgate/internal/logger"
)

// APISender posts messages to a transactional email provider over HTTPS.
type APISender struct {
	validator

	baseURL    string
	apiKey     string
	from       string
	senderName string
	httpClient *http.Client
}

func NewAPISender(cfg *config.Email) *APISender {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &APISender{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		senderName: cfg.SenderName,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (s *APISender) Send(recipientEmail, subject, body string) error {
	payload := sendRequest{
		From:    fmt.Sprintf("%s <%s>", s.senderName, s.from),
		To:      recipientEmail,
		Subject: subject,
		Text:    body,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/v1/send", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Log.Error("email provider request failed", "error", err)
		return fmt.Errorf("email provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Log.Error("email provider returned error", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
