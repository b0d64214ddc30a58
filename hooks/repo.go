package hooks

import "errors"

var ErrNotFound = errors.New("hook not found")

type Repo interface {
	// GetByAccount returns the hook for (accountID, AppID), or ErrNotFound.
	GetByAccount(accountID uint) (*Hook, error)

	// Replace deletes any existing hook for (hook.AccountID, AppID) and
	// creates the given one. At most one hook per account survives; there
	// is no merge and no history.
	Replace(hook *Hook) error

	// UpdateTokens overwrites the access token, refresh token, and expiry
	// on an existing hook. ReferenceID and Scope are left untouched.
	UpdateTokens(accountID uint, accessToken, refreshToken string, tokenExpiresAt int64) error

	// Delete removes the account's hook. Deleting a missing hook returns
	// ErrNotFound.
	Delete(accountID uint) error
}
