package service

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgate/opsgate/internal/domain"
	internal_errors "github.com/opsgate/opsgate/internal/errors"
)

type MockWhitelistStorage struct {
	SaveWhitelistEntryFunc   func(entry domain.WhitelistEntry) error
	WhitelistEntriesFunc     func() ([]domain.WhitelistEntry, error)
	DeleteWhitelistEntryFunc func(id string) error
	UpdateWhitelistNotesFunc func(id string, notes *string) error

	Saved []domain.WhitelistEntry
}

func (m *MockWhitelistStorage) SaveWhitelistEntry(entry domain.WhitelistEntry) error {
	m.Saved = append(m.Saved, entry)
	if m.SaveWhitelistEntryFunc != nil {
		return m.SaveWhitelistEntryFunc(entry)
	}
	return nil
}

func (m *MockWhitelistStorage) WhitelistEntries() ([]domain.WhitelistEntry, error) {
	if m.WhitelistEntriesFunc != nil {
		return m.WhitelistEntriesFunc()
	}
	return nil, nil
}

func (m *MockWhitelistStorage) DeleteWhitelistEntry(id string) error {
	if m.DeleteWhitelistEntryFunc != nil {
		return m.DeleteWhitelistEntryFunc(id)
	}
	return nil
}

func (m *MockWhitelistStorage) UpdateWhitelistNotes(id string, notes *string) error {
	if m.UpdateWhitelistNotesFunc != nil {
		return m.UpdateWhitelistNotesFunc(id, notes)
	}
	return nil
}

func TestWhitelistAdd_NormalizesEmail(t *testing.T) {
	storage := &MockWhitelistStorage{}
	wl := NewWhitelist(storage, &MockEmail{})

	entry, err := wl.Add("  User@Example.com ", nil, 5)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", entry.Email)
	require.NotNil(t, entry.CreatedBy)
	assert.Equal(t, domain.UserId(5), *entry.CreatedBy)

	_, err = uuid.Parse(entry.Id)
	assert.NoError(t, err)

	require.Len(t, storage.Saved, 1)
	assert.Equal(t, "user@example.com", storage.Saved[0].Email)
}

func TestWhitelistAdd_InvalidEmail(t *testing.T) {
	storage := &MockWhitelistStorage{}
	wl := NewWhitelist(storage, &MockEmail{})

	_, err := wl.Add("not-an-email", nil, 5)
	require.Error(t, err)
	assert.Empty(t, storage.Saved)
}

func TestWhitelistAdd_DuplicatePropagatesConflict(t *testing.T) {
	storage := &MockWhitelistStorage{
		SaveWhitelistEntryFunc: func(entry domain.WhitelistEntry) error {
			return &internal_errors.ErrorWithStatusCode{Message: "Email is already whitelisted", StatusCode: http.StatusConflict}
		},
	}
	wl := NewWhitelist(storage, &MockEmail{})

	_, err := wl.Add("dup@example.com", nil, 5)
	require.Error(t, err)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.StatusCode)
}

func TestWhitelistUpdateNotes(t *testing.T) {
	var gotId string
	var gotNotes *string
	storage := &MockWhitelistStorage{
		UpdateWhitelistNotesFunc: func(id string, notes *string) error {
			gotId, gotNotes = id, notes
			return nil
		},
	}
	wl := NewWhitelist(storage, &MockEmail{})

	notes := "contractor until October"
	require.NoError(t, wl.UpdateNotes("some-id", &notes))
	assert.Equal(t, "some-id", gotId)
	require.NotNil(t, gotNotes)
	assert.Equal(t, notes, *gotNotes)
}
