package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"
	"github.com/opsgate/opsgate/internal/domain"
	internal_errors "github.com/opsgate/opsgate/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser is the public entry point for creating a new user. It wraps the
// core logic in a transaction to ensure the operation is atomic.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User is a public, read-only method to fetch a user by their email.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UserById is a public, read-only method to fetch a user by id.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userById(s.db, id)
}

// Users returns all users ordered by creation time, newest first.
func (s *Storage) Users() ([]domain.User, error) {
	return s.users(s.db)
}

// SetAdmin is the public entry point for changing a user's admin flag.
func (s *Storage) SetAdmin(id domain.UserId, admin bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.setAdmin(tx, id, admin)
	})
}

// DeleteUser is the public entry point for deleting a user account.
// Whitelist entries created by the user keep existing with created_by
// nulled via ON DELETE SET NULL.
func (s *Storage) DeleteUser(id domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteUser(tx, id)
	})
}

// SaveLoginToken stores a pending magic-link token, replacing any
// previous token for the same email.
func (s *Storage) SaveLoginToken(token domain.LoginToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveLoginToken(tx, token)
	})
}

// LoginToken is a public, read-only method to retrieve a pending token.
func (s *Storage) LoginToken(email domain.Email) (domain.LoginToken, error) {
	return s.loginToken(s.db, email)
}

// DeleteLoginToken removes a used or expired token.
func (s *Storage) DeleteLoginToken(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteLoginToken(tx, email)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow("INSERT INTO users(email, is_admin) VALUES($1, $2) RETURNING id",
		user.Email, user.Admin).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusConflict}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, email, is_admin, created_at FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Email, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(q Querier, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, email, is_admin, created_at FROM users WHERE id = $1", id).
		Scan(&user.Id, &user.Email, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) users(q Querier) ([]domain.User, error) {
	rows, err := q.Query("SELECT id, email, is_admin, created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.Email, &user.Admin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (s *Storage) setAdmin(q Querier, id domain.UserId, admin bool) error {
	result, err := q.Exec("UPDATE users SET is_admin = $1 WHERE id = $2", admin, id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for admin update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found for admin update")
	}
	return nil
}

func (s *Storage) deleteUser(q Querier, id domain.UserId) error {
	result, err := q.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("User not found for deletion")
	}
	return nil
}

func (s *Storage) saveLoginToken(q Querier, token domain.LoginToken) error {
	_, err := q.Exec(`
        INSERT INTO login_tokens(email, token_hash, expires_at)
        VALUES($1, $2, $3)
        ON CONFLICT (email)
        DO UPDATE SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at`,
		token.Email, token.TokenHash, token.Expires,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login token: %w", err)
	}
	return nil
}

func (s *Storage) loginToken(q Querier, email domain.Email) (domain.LoginToken, error) {
	var token domain.LoginToken
	err := q.QueryRow(`
        SELECT email, token_hash, (expires_at at time zone 'utc')
        FROM login_tokens WHERE email = $1`,
		email,
	).Scan(&token.Email, &token.TokenHash, &token.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LoginToken{}, internal_errors.NotFound("Login token not found")
		}
		return domain.LoginToken{}, fmt.Errorf("failed to query login token: %w", err)
	}
	return token, nil
}

func (s *Storage) deleteLoginToken(q Querier, email domain.Email) error {
	result, err := q.Exec("DELETE FROM login_tokens WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to delete login token: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for login token deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("Login token not found for deletion")
	}
	return nil
}
