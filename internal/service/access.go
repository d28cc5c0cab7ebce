package service

import (
	"slices"
	"strings"

	"github.com/opsgate/opsgate/internal/domain"
)

// WhitelistChecker is the single read the access decision needs.
type WhitelistChecker interface {
	IsEmailWhitelisted(email domain.Email) (bool, error)
}

// AccessPolicy decides admission and initial privilege for an email.
// The allowed-domain list comes from static configuration and is
// immutable for the process lifetime.
type AccessPolicy struct {
	allowedDomains []string
	whitelist      WhitelistChecker
}

func NewAccessPolicy(allowedDomains []string, whitelist WhitelistChecker) *AccessPolicy {
	return &AccessPolicy{
		allowedDomains: allowedDomains,
		whitelist:      whitelist,
	}
}

// IsEmailAllowed reports whether the email may sign in. Domain membership
// is checked first (exact, case-sensitive as configured); otherwise the
// lowercased email must have an exact whitelist row. Absence of a match
// is the only deny condition.
func (p *AccessPolicy) IsEmailAllowed(email domain.Email) (bool, error) {
	if email == "" {
		return false, nil
	}
	if len(p.allowedDomains) > 0 && slices.Contains(p.allowedDomains, emailDomain(email)) {
		return true, nil
	}
	return p.whitelist.IsEmailWhitelisted(strings.ToLower(email))
}

// ShouldBeAdmin reports whether a newly created account gets the admin
// flag. Only domain membership grants admin; individual whitelisting
// implies guest access only.
func (p *AccessPolicy) ShouldBeAdmin(email domain.Email) bool {
	return len(p.allowedDomains) > 0 && slices.Contains(p.allowedDomains, emailDomain(email))
}

func emailDomain(email domain.Email) string {
	_, domainPart, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return domainPart
}
