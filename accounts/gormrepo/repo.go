package gormrepo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/atendhub/mercadolivre-integration/accounts"
)

var _ accounts.Repo = (*GormAccountRepo)(nil)

type GormAccountRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormAccountRepo {
	return &GormAccountRepo{db: db}
}

func (r *GormAccountRepo) GetByID(id uint) (*accounts.Account, error) {
	var account accounts.Account
	err := r.db.First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, accounts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &account, nil
}
