package store

// Stores groups the entity stores of a session.
type Stores struct {
	Bornes *Bornes
	Sites  *Sites
	Users  *Users
}

func New() *Stores {
	return &Stores{
		Bornes: NewBornes(),
		Sites:  NewSites(),
		Users:  NewUsers(),
	}
}

// Clear empties every store, used when the session ends.
func (s *Stores) Clear() {
	s.Bornes.Clear()
	s.Bornes.SetShowAddModal(false)
	s.Sites.Clear()
	s.Sites.ResetSelected()
	s.Users.Clear()
	s.Users.ResetSelected()
	s.Users.SetProfileModal(false)
}
