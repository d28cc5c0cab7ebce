package domain

import "time"

// LoginToken is a pending magic link. One per email; replaced on re-request
// after expiry. The raw token is only ever present in the emailed link.
type LoginToken struct {
	Email     Email
	TokenHash string
	Expires   time.Time
}
