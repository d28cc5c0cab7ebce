// Package email delivers transactional mail. Two senders are available:
// an HTTP provider client and a direct SMTP client, selected by config.
package email

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/opsgate/opsgate/internal/config"
	"github.com/opsgate/opsgate/internal/errors"
)

type Sender interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email string) error
}

// New picks the delivery path from config. Mode "api" uses the
// transactional HTTP provider, "smtp" talks to the server directly.
func New(cfg *config.Email) (Sender, error) {
	switch cfg.Mode {
	case "api":
		return NewAPISender(cfg), nil
	case "smtp":
		return NewSMTPSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email mode %q", cfg.Mode)
	}
}

type validator struct{}

func (validator) IsCorrect(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return &errors.ErrorWithStatusCode{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	return nil
}
