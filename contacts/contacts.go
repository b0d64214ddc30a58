package contacts

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("contact not found")

// Contact is the platform's end-customer record, referenced by the orders
// endpoint's contact_id guard.
type Contact struct {
	ID        uint `gorm:"primaryKey"`
	AccountID uint `gorm:"index"`
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repo interface {
	// GetByID returns the contact scoped to the account, or ErrNotFound.
	GetByID(accountID, contactID uint) (*Contact, error)
}
