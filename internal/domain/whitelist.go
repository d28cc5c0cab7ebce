package domain

import "time"

// WhitelistEntry is an explicitly admin-approved email address permitted to
// sign in despite not belonging to an allowed domain. Entries are created and
// deleted only through admin actions; only Notes is ever mutated.
type WhitelistEntry struct {
	Id        string    `json:"id"`
	Email     Email     `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy *UserId   `json:"created_by,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}
