// Package borne implements the data access operations on charging stations.
package borne

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	pathEquipment     = "equipment"
	pathEquipmentAll  = "equipment/all"
	pathEquipmentPage = "/equipment"
)

// BornesList fetches every borne.
type BornesList struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Bornes
	logger  *logrus.Logger
	mount   sync.Once
}

// NewBornesList returns a BornesList, it reports loading until the first fetch settles.
func NewBornesList(clients client.Getter, s *store.Bornes, logger *logrus.Logger) *BornesList {
	return &BornesList{
		Outcome: operation.NewOutcome(true),
		clients: clients,
		store:   s,
		logger:  logger,
	}
}

// Fetch replaces the store contents with the bornes returned by the backend.
func (l *BornesList) Fetch(ctx context.Context) operation.Result[[]model.Borne] {
	op := operation.Op{Name: "borne.list", Logger: l.logger}

	return operation.Run(ctx, l.Outcome, op, func(ctx context.Context) ([]model.Borne, error) {
		var bornes []model.Borne

		if err := l.clients.Client().Do(ctx, http.MethodGet, pathEquipmentAll, nil, &bornes); err != nil {
			return nil, err
		}

		l.store.ReplaceAll(bornes)

		return bornes, nil
	})
}

// Mount runs Fetch once, later calls are no-ops.
func (l *BornesList) Mount(ctx context.Context) {
	l.mount.Do(func() { l.Fetch(ctx) })
}

// PaginatedBornesList fetches one page of bornes, a page change refetches.
type PaginatedBornesList struct {
	*operation.Pager[*model.EquipmentPage]
}

func NewPaginatedBornesList(
	clients client.Getter,
	s *store.Bornes,
	logger *logrus.Logger,
	pagination model.Pagination,
	filter model.EquipmentFilter,
) *PaginatedBornesList {
	fetch := func(ctx context.Context, query url.Values) (*model.EquipmentPage, error) {
		page := &model.EquipmentPage{}

		if err := clients.Client().Do(ctx, http.MethodGet, pathEquipmentPage, nil, page, client.WithQuery(query)); err != nil {
			return nil, err
		}

		s.ReplaceAll(page.Equipments)

		return page, nil
	}

	op := operation.Op{Name: "borne.page", Logger: logger}

	return &PaginatedBornesList{Pager: operation.NewPager(op, pagination, filter, fetch)}
}

// CreateBorne creates bornes.
type CreateBorne struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Bornes
	logger  *logrus.Logger
}

func NewCreateBorne(clients client.Getter, s *store.Bornes, logger *logrus.Logger) *CreateBorne {
	return &CreateBorne{Outcome: operation.NewOutcome(false), clients: clients, store: s, logger: logger}
}

// Create sends borne to the backend and appends the created borne to the store.
func (c *CreateBorne) Create(ctx context.Context, borne model.Borne) operation.Result[*model.Borne] {
	op := operation.Op{Name: "borne.create", Logger: c.logger}

	return operation.Run(ctx, c.Outcome, op, func(ctx context.Context) (*model.Borne, error) {
		created := model.Borne{}

		if err := c.clients.Client().Do(ctx, http.MethodPost, pathEquipment, borne, &created); err != nil {
			return nil, err
		}

		created = c.store.Append(created)

		return &created, nil
	})
}

// DeleteBorne deletes bornes.
type DeleteBorne struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Bornes
	logger  *logrus.Logger
}

func NewDeleteBorne(clients client.Getter, s *store.Bornes, logger *logrus.Logger) *DeleteBorne {
	return &DeleteBorne{Outcome: operation.NewOutcome(false), clients: clients, store: s, logger: logger}
}

// Delete removes the borne identified by id from the backend, then from the store.
// The response payload is returned as is, nil when the body is empty.
func (d *DeleteBorne) Delete(ctx context.Context, id int64) operation.Result[json.RawMessage] {
	op := operation.Op{Name: "borne.delete", Logger: d.logger}
	key := strconv.FormatInt(id, 10)

	return operation.Run(ctx, d.Outcome, op, func(ctx context.Context) (json.RawMessage, error) {
		var payload json.RawMessage

		if err := d.clients.Client().Do(ctx, http.MethodDelete, pathEquipment+"/"+key, nil, &payload); err != nil {
			return nil, err
		}

		d.store.Remove(key)

		return payload, nil
	})
}
