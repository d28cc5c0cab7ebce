package pg

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"
	"github.com/opsgate/opsgate/internal/domain"
	internal_errors "github.com/opsgate/opsgate/internal/errors"
)

// postgres error code for unique_violation
const uniqueViolation = pq.ErrorCode("23505")

// =========================================================================
// Public Methods (satisfy the service.WhitelistStorage interface)
// =========================================================================

// SaveWhitelistEntry inserts a new whitelist entry. The email must already
// be normalized to lowercase by the service layer; the unique constraint
// on email is the sole concurrency safeguard and surfaces as 409.
func (s *Storage) SaveWhitelistEntry(entry domain.WhitelistEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveWhitelistEntry(tx, entry)
	})
}

// IsEmailWhitelisted checks for an exact match on the normalized email.
func (s *Storage) IsEmailWhitelisted(email domain.Email) (bool, error) {
	return s.isEmailWhitelisted(s.db, email)
}

// WhitelistEntries returns all entries, newest first.
func (s *Storage) WhitelistEntries() ([]domain.WhitelistEntry, error) {
	return s.whitelistEntries(s.db)
}

// DeleteWhitelistEntry removes an entry by id.
func (s *Storage) DeleteWhitelistEntry(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteWhitelistEntry(tx, id)
	})
}

// UpdateWhitelistNotes updates the notes field, the only mutable field
// of a whitelist entry.
func (s *Storage) UpdateWhitelistNotes(id string, notes *string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateWhitelistNotes(tx, id, notes)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveWhitelistEntry(q Querier, entry domain.WhitelistEntry) error {
	_, err := q.Exec(`
        INSERT INTO whitelist_entries(id, email, created_by, notes)
        VALUES($1, $2, $3, $4)`,
		entry.Id, entry.Email, entry.CreatedBy, entry.Notes,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return &internal_errors.ErrorWithStatusCode{Message: "Email is already whitelisted", StatusCode: http.StatusConflict}
		}
		return fmt.Errorf("failed to insert whitelist entry: %w", err)
	}
	return nil
}

func (s *Storage) isEmailWhitelisted(q Querier, email domain.Email) (bool, error) {
	var exists bool
	err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM whitelist_entries WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check whitelist status: %w", err)
	}
	return exists, nil
}

func (s *Storage) whitelistEntries(q Querier) ([]domain.WhitelistEntry, error) {
	rows, err := q.Query(`
		SELECT id, email, created_at AT TIME ZONE 'utc', created_by, notes
		FROM whitelist_entries
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query whitelist entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.WhitelistEntry
	for rows.Next() {
		var entry domain.WhitelistEntry
		if err := rows.Scan(&entry.Id, &entry.Email, &entry.CreatedAt, &entry.CreatedBy, &entry.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan whitelist entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating whitelist entries: %w", err)
	}

	return entries, nil
}

func (s *Storage) deleteWhitelistEntry(q Querier, id string) error {
	result, err := q.Exec("DELETE FROM whitelist_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete whitelist entry: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for whitelist deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("Whitelist entry not found")
	}
	return nil
}

func (s *Storage) updateWhitelistNotes(q Querier, id string, notes *string) error {
	result, err := q.Exec("UPDATE whitelist_entries SET notes = $1 WHERE id = $2", notes, id)
	if err != nil {
		return fmt.Errorf("failed to update whitelist notes: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for notes update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Whitelist entry not found")
	}
	return nil
}
