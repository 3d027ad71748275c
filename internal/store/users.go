package store

import (
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/model"
)

// Users holds the user accounts, the selected account and the profile dialog state.
type Users struct {
	*Collection[model.User]

	mu                  sync.RWMutex
	selected            *model.User
	profileModalVisible bool
}

func NewUsers() *Users {
	return &Users{Collection: NewCollection[model.User]()}
}

func (u *Users) Selected() *model.User {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.selected == nil {
		return nil
	}

	user := *u.selected

	return &user
}

func (u *Users) Select(user model.User) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.selected = &user
}

func (u *Users) ResetSelected() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.selected = nil
}

func (u *Users) ProfileModalVisible() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.profileModalVisible
}

// ToggleProfileModal flips the profile dialog visibility and returns the new state.
func (u *Users) ToggleProfileModal() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.profileModalVisible = !u.profileModalVisible

	return u.profileModalVisible
}

func (u *Users) SetProfileModal(visible bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.profileModalVisible = visible
}
