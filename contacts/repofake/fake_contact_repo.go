package repofake

import (
	"sync"

	"github.com/atendhub/mercadolivre-integration/contacts"
)

var _ contacts.Repo = (*FakeContactRepo)(nil)

type FakeContactRepo struct {
	contacts map[uint]*contacts.Contact
	lock     sync.RWMutex
}

func NewFakeContactRepo() *FakeContactRepo {
	return &FakeContactRepo{contacts: make(map[uint]*contacts.Contact)}
}

func (cr *FakeContactRepo) Add(contact *contacts.Contact) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.contacts[contact.ID] = contact
}

func (cr *FakeContactRepo) GetByID(accountID, contactID uint) (*contacts.Contact, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	contact, ok := cr.contacts[contactID]
	if !ok || contact.AccountID != accountID {
		return nil, contacts.ErrNotFound
	}
	return contact, nil
}
