package hooks

import "time"

// AppID identifies this integration in the hooks table. The hooks table is
// shared with other marketplace integrations, so every query is scoped by it.
const AppID = "mercado_livre"

type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// Hook is the persisted credential record for one account's Mercado Livre
// connection. Fixed schema on purpose: the tokens and expiry used to live in
// a free-form settings map, which made every read a typo hazard.
type Hook struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID uint   `gorm:"index:idx_hooks_account_app,unique"`
	AppID     string `gorm:"index:idx_hooks_account_app,unique"`

	AccessToken  string
	RefreshToken string
	// TokenExpiresAt is epoch seconds; the access token is invalid at or
	// after this instant.
	TokenExpiresAt int64
	Scope          string

	// ReferenceID is the marketplace's own seller id, set once when the
	// hook is created and never rewritten by refreshes.
	ReferenceID string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
