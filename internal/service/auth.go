package service

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opsgate/opsgate/internal/domain"
	"github.com/opsgate/opsgate/internal/errors"
	"github.com/opsgate/opsgate/internal/logger"
	"github.com/opsgate/opsgate/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	RequestLink(email domain.Email) error
	Verify(email domain.Email, token string) (string, domain.User, error)

	// Admin user management
	Users() ([]domain.User, error)
	SetAdmin(actingId, targetId domain.UserId, admin bool) error
	DeleteUser(targetId domain.UserId) error
}

type Auth struct {
	storage AuthStorage
	email   Email
	jwt     Jwt
	access  AccessDecider

	baseURL      string
	magicLinkTTL time.Duration
	now          func() time.Time
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	Users() ([]domain.User, error)
	SetAdmin(id domain.UserId, admin bool) error
	DeleteUser(id domain.UserId) error
	SaveLoginToken(token domain.LoginToken) error
	LoginToken(email domain.Email) (domain.LoginToken, error)
	DeleteLoginToken(email domain.Email) error
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

// AccessDecider is the sign-in gate. Re-run on every authentication
// attempt, not just account creation.
type AccessDecider interface {
	IsEmailAllowed(email domain.Email) (bool, error)
	ShouldBeAdmin(email domain.Email) bool
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt, access AccessDecider, baseURL string, magicLinkTTL time.Duration) *Auth {
	return &Auth{
		storage:      storage,
		email:        email,
		jwt:          jwt,
		access:       access,
		baseURL:      strings.TrimRight(baseURL, "/"),
		magicLinkTTL: magicLinkTTL,
		now:          time.Now,
	}
}

// RequestLink generates a single-use sign-in token and emails a magic link.
// Only a bcrypt hash of the token is stored. Denied emails produce
// errors.AccessDenied with no state change; the handler keeps the outer
// response generic so whitelist membership cannot be probed.
func (a *Auth) RequestLink(email domain.Email) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}

	allowed, err := a.access.IsEmailAllowed(email)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.AccessDenied()
	}

	pending, err := a.storage.LoginToken(email)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if err == nil { // token presented, check expiration
		if pending.Expires.Before(a.now()) { // if expired - delete
			if err := a.storage.DeleteLoginToken(email); err != nil {
				return err
			}
		} else {
			diff := pending.Expires.Sub(a.now())
			return &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Previous sign-in link is still valid. Retry after %.0fs", diff.Seconds()), StatusCode: http.StatusTooEarly}
		}
	}

	token := utils.GenerateLoginToken()
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash login token", "error", err)
		return err
	}
	err = a.storage.SaveLoginToken(domain.LoginToken{
		Email:     email,
		TokenHash: string(tokenHash),
		Expires:   a.now().UTC().Add(a.magicLinkTTL),
	})
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/verify?email=%s&token=%s", a.baseURL, url.QueryEscape(email), token)
	emailBody := fmt.Sprintf(`
		Hello,

		Use the link below to sign in. It is valid for %.0f minutes and can be used once.

		%s

		If you did not request this, please ignore this email.
	`, a.magicLinkTTL.Minutes(), link)

	if err := a.email.Send(email, "Your sign-in link", emailBody); err != nil {
		return err
	}
	return nil
}

// Verify checks the emailed token and returns an access token. On the
// first successful verification for an email, the account is created and
// the admin flag is bootstrapped from domain membership.
func (a *Auth) Verify(email domain.Email, token string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := a.email.IsCorrect(email); err != nil {
		return "", domain.User{}, err
	}

	// The gate runs on every attempt: a whitelist row removed after the
	// link was sent must still deny the sign-in.
	allowed, err := a.access.IsEmailAllowed(email)
	if err != nil {
		return "", domain.User{}, err
	}
	if !allowed {
		return "", domain.User{}, errors.AccessDenied()
	}

	pending, err := a.storage.LoginToken(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Invalid or expired sign-in link", StatusCode: http.StatusBadRequest}
		}
		return "", domain.User{}, err
	}
	if pending.Expires.Before(a.now()) {
		return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Sign-in link expired", StatusCode: http.StatusBadRequest}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pending.TokenHash), []byte(token)); err != nil {
		logger.Log.Warn("sign-in token verification failed", "error", err)
		return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Invalid or expired sign-in link", StatusCode: http.StatusBadRequest}
	}

	user, err := a.storage.User(email)
	if err != nil {
		if !errors.IsNotFound(err) {
			return "", domain.User{}, err
		}
		// First sign-in: create the account. Admin comes from domain
		// membership only, never from a whitelist row.
		user = domain.User{Email: email, Admin: a.access.ShouldBeAdmin(email)}
		id, err := a.storage.SaveUser(user)
		if err != nil {
			return "", domain.User{}, err
		}
		user.Id = id
	}

	if err := a.storage.DeleteLoginToken(email); err != nil { // single use
		return "", domain.User{}, err
	}

	accessToken, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}

	return accessToken, user, nil
}

// Users returns all accounts for the admin dashboard.
func (a *Auth) Users() ([]domain.User, error) {
	return a.storage.Users()
}

// SetAdmin toggles the admin flag. An admin revoking their own flag is
// rejected; this is a courtesy guard, not a security boundary.
func (a *Auth) SetAdmin(actingId, targetId domain.UserId, admin bool) error {
	if actingId == targetId && !admin {
		return &errors.ErrorWithStatusCode{
			Message:    "You cannot revoke your own admin access",
			StatusCode: http.StatusBadRequest,
		}
	}
	return a.storage.SetAdmin(targetId, admin)
}

// DeleteUser removes an account. Whitelist entries the user created stay,
// with created_by nulled by the schema.
func (a *Auth) DeleteUser(targetId domain.UserId) error {
	return a.storage.DeleteUser(targetId)
}
