package accounts

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("account not found")

// Account is the slice of the platform's account record this service needs:
// enough to confirm a callback or API request targets a real account.
type Account struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repo interface {
	// GetByID returns the account, or ErrNotFound.
	GetByID(id uint) (*Account, error)
}
