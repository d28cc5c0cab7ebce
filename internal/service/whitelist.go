package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/opsgate/opsgate/internal/domain"
)

type WhitelistService interface {
	Add(email domain.Email, notes *string, createdBy domain.UserId) (domain.WhitelistEntry, error)
	List() ([]domain.WhitelistEntry, error)
	Delete(id string) error
	UpdateNotes(id string, notes *string) error
}

type Whitelist struct {
	storage        WhitelistStorage
	emailValidator EmailValidator
}

type WhitelistStorage interface {
	SaveWhitelistEntry(entry domain.WhitelistEntry) error
	WhitelistEntries() ([]domain.WhitelistEntry, error)
	DeleteWhitelistEntry(id string) error
	UpdateWhitelistNotes(id string, notes *string) error
}

type EmailValidator interface {
	IsCorrect(email domain.Email) error
}

func NewWhitelist(storage WhitelistStorage, emailValidator EmailValidator) *Whitelist {
	return &Whitelist{storage: storage, emailValidator: emailValidator}
}

// Add creates a whitelist entry. Emails are normalized to lowercase
// before insert; the unique constraint surfaces duplicates as 409.
func (w *Whitelist) Add(email domain.Email, notes *string, createdBy domain.UserId) (domain.WhitelistEntry, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := w.emailValidator.IsCorrect(email); err != nil {
		return domain.WhitelistEntry{}, err
	}

	entry := domain.WhitelistEntry{
		Id:        uuid.NewString(),
		Email:     email,
		CreatedBy: &createdBy,
		Notes:     notes,
	}
	if err := w.storage.SaveWhitelistEntry(entry); err != nil {
		return domain.WhitelistEntry{}, err
	}
	return entry, nil
}

func (w *Whitelist) List() ([]domain.WhitelistEntry, error) {
	return w.storage.WhitelistEntries()
}

func (w *Whitelist) Delete(id string) error {
	return w.storage.DeleteWhitelistEntry(id)
}

func (w *Whitelist) UpdateNotes(id string, notes *string) error {
	return w.storage.UpdateWhitelistNotes(id, notes)
}
