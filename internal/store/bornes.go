package store

import (
	"sync/atomic"

	"github.com/Felixhuangsiling/front-pfee/internal/model"
)

// Bornes holds the charging stations.
type Bornes struct {
	*Collection[model.Borne]

	showAddModal atomic.Bool
}

func NewBornes() *Bornes {
	return &Bornes{Collection: NewCollection[model.Borne]()}
}

// ShowAddModal reports whether the add borne dialog is open.
func (b *Bornes) ShowAddModal() bool {
	return b.showAddModal.Load()
}

func (b *Bornes) SetShowAddModal(v bool) {
	b.showAddModal.Store(v)
}
