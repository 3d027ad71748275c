package store

import (
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/model"
)

// Sites holds the sites and the one currently selected.
type Sites struct {
	*Collection[model.Site]

	mu       sync.RWMutex
	selected *model.Site
}

func NewSites() *Sites {
	return &Sites{Collection: NewCollection[model.Site]()}
}

// Selected returns the selected site, nil when none is.
func (s *Sites) Selected() *model.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return nil
	}

	site := *s.selected

	return &site
}

func (s *Sites) Select(site model.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = &site
}

func (s *Sites) ResetSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
}
