package pg

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgate/opsgate/internal/domain"
	internal_errors "github.com/opsgate/opsgate/internal/errors"
)

func TestSaveWhitelistEntry(t *testing.T) {
	s, mock := setupMock(t)

	createdBy := domain.UserId(3)
	notes := "contractor"
	entry := domain.WhitelistEntry{
		Id:        "0c9aa3de-5f3f-4d3f-9d6b-0f2a3b4c5d6e",
		Email:     "user@example.com",
		CreatedBy: &createdBy,
		Notes:     &notes,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO whitelist_entries").
		WithArgs(entry.Id, entry.Email, int64(createdBy), notes).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveWhitelistEntry(entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWhitelistEntry_Duplicate(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO whitelist_entries").
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectRollback()

	err := s.SaveWhitelistEntry(domain.WhitelistEntry{Id: "id", Email: "dup@example.com"})
	require.Error(t, err)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 409, e.StatusCode)
	assert.Equal(t, "Email is already whitelisted", e.Message)
}

func TestIsEmailWhitelisted(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{"whitelisted", true},
		{"not whitelisted", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := setupMock(t)

			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("user@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			got, err := s.IsEmailWhitelisted("user@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.exists, got)
		})
	}
}

func TestWhitelistEntries(t *testing.T) {
	s, mock := setupMock(t)

	now := time.Now()
	createdBy := int64(3)
	rows := sqlmock.NewRows([]string{"id", "email", "created_at", "created_by", "notes"}).
		AddRow("id-2", "b@example.com", now, nil, nil).
		AddRow("id-1", "a@example.com", now.Add(-time.Hour), createdBy, "note")
	mock.ExpectQuery("SELECT id, email, created_at").
		WillReturnRows(rows)

	entries, err := s.WhitelistEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Nil(t, entries[0].CreatedBy)
	assert.Nil(t, entries[0].Notes)

	require.NotNil(t, entries[1].CreatedBy)
	assert.Equal(t, domain.UserId(3), *entries[1].CreatedBy)
	require.NotNil(t, entries[1].Notes)
	assert.Equal(t, "note", *entries[1].Notes)
}

func TestDeleteWhitelistEntry_NotFound(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM whitelist_entries").
		WithArgs("missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteWhitelistEntry("missing-id")
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestUpdateWhitelistNotes(t *testing.T) {
	s, mock := setupMock(t)

	notes := "updated"
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE whitelist_entries SET notes").
		WithArgs(notes, "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpdateWhitelistNotes("id-1", &notes))
	assert.NoError(t, mock.ExpectationsWereMet())
}
