package gormrepo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/atendhub/mercadolivre-integration/hooks"
)

var _ hooks.Repo = (*GormHookRepo)(nil)

type GormHookRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormHookRepo {
	return &GormHookRepo{db: db}
}

func (r *GormHookRepo) GetByAccount(accountID uint) (*hooks.Hook, error) {
	var hook hooks.Hook
	err := r.db.Where("account_id = ? AND app_id = ?", accountID, hooks.AppID).First(&hook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, hooks.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hook: %w", err)
	}
	return &hook, nil
}

func (r *GormHookRepo) Replace(hook *hooks.Hook) error {
	hook.AppID = hooks.AppID

	// Delete-then-create in one transaction so a concurrent reader never
	// observes two hooks for the same account.
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ? AND app_id = ?", hook.AccountID, hooks.AppID).
			Delete(&hooks.Hook{}).Error; err != nil {
			return err
		}
		return tx.Create(hook).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace hook: %w", err)
	}
	return nil
}

func (r *GormHookRepo) UpdateTokens(accountID uint, accessToken, refreshToken string, tokenExpiresAt int64) error {
	result := r.db.Model(&hooks.Hook{}).
		Where("account_id = ? AND app_id = ?", accountID, hooks.AppID).
		Updates(map[string]any{
			"access_token":     accessToken,
			"refresh_token":    refreshToken,
			"token_expires_at": tokenExpiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update hook tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return hooks.ErrNotFound
	}
	return nil
}

func (r *GormHookRepo) Delete(accountID uint) error {
	result := r.db.Where("account_id = ? AND app_id = ?", accountID, hooks.AppID).Delete(&hooks.Hook{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete hook: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return hooks.ErrNotFound
	}
	return nil
}
