package gormrepo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/atendhub/mercadolivre-integration/contacts"
)

var _ contacts.Repo = (*GormContactRepo)(nil)

type GormContactRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormContactRepo {
	return &GormContactRepo{db: db}
}

func (r *GormContactRepo) GetByID(accountID, contactID uint) (*contacts.Contact, error) {
	var contact contacts.Contact
	err := r.db.Where("account_id = ? AND id = ?", accountID, contactID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contacts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return &contact, nil
}
