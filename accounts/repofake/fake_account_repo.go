package repofake

import (
	"sync"

	"github.com/atendhub/mercadolivre-integration/accounts"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	accounts map[uint]*accounts.Account
	lock     sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{accounts: make(map[uint]*accounts.Account)}
}

func (ar *FakeAccountRepo) Add(account *accounts.Account) {
	ar.lock.Lock()
	defer ar.lock.Unlock()
	ar.accounts[account.ID] = account
}

func (ar *FakeAccountRepo) GetByID(id uint) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	account, ok := ar.accounts[id]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return account, nil
}
