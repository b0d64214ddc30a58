package repofake

import (
	"sync"

	"github.com/atendhub/mercadolivre-integration/hooks"
)

var _ hooks.Repo = (*FakeHookRepo)(nil)

type FakeHookRepo struct {
	hooks  map[uint]*hooks.Hook // accountID -> hook
	nextID uint
	lock   sync.RWMutex
}

func NewFakeHookRepo() *FakeHookRepo {
	return &FakeHookRepo{
		hooks:  make(map[uint]*hooks.Hook),
		nextID: 1,
	}
}

func (hr *FakeHookRepo) GetByAccount(accountID uint) (*hooks.Hook, error) {
	hr.lock.RLock()
	defer hr.lock.RUnlock()

	hook, ok := hr.hooks[accountID]
	if !ok {
		return nil, hooks.ErrNotFound
	}
	copied := *hook
	return &copied, nil
}

func (hr *FakeHookRepo) Replace(hook *hooks.Hook) error {
	hr.lock.Lock()
	defer hr.lock.Unlock()

	hook.AppID = hooks.AppID
	if hook.ID == 0 {
		hook.ID = hr.nextID
		hr.nextID++
	}
	copied := *hook
	hr.hooks[hook.AccountID] = &copied
	return nil
}

func (hr *FakeHookRepo) UpdateTokens(accountID uint, accessToken, refreshToken string, tokenExpiresAt int64) error {
	hr.lock.Lock()
	defer hr.lock.Unlock()

	hook, ok := hr.hooks[accountID]
	if !ok {
		return hooks.ErrNotFound
	}
	hook.AccessToken = accessToken
	hook.RefreshToken = refreshToken
	hook.TokenExpiresAt = tokenExpiresAt
	return nil
}

func (hr *FakeHookRepo) Delete(accountID uint) error {
	hr.lock.Lock()
	defer hr.lock.Unlock()

	if _, ok := hr.hooks[accountID]; !ok {
		return hooks.ErrNotFound
	}
	delete(hr.hooks, accountID)
	return nil
}

// Count reports how many hooks are stored. Test helper.
func (hr *FakeHookRepo) Count() int {
	hr.lock.RLock()
	defer hr.lock.RUnlock()
	return len(hr.hooks)
}
