package site

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/sirupsen/logrus"
)

// mutation is the state shared by the site mutations.
type mutation struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Sites
	logger  *logrus.Logger
}

func newMutation(clients client.Getter, s *store.Sites, logger *logrus.Logger) mutation {
	return mutation{Outcome: operation.NewOutcome(false), clients: clients, store: s, logger: logger}
}

func (m *mutation) op(name string) operation.Op {
	return operation.Op{Name: name, Logger: m.logger}
}

func sitePath(id int64) string {
	return pathSites + "/" + strconv.FormatInt(id, 10)
}

// CreateSite creates sites.
type CreateSite struct {
	mutation
}

func NewCreateSite(clients client.Getter, s *store.Sites, logger *logrus.Logger) *CreateSite {
	return &CreateSite{newMutation(clients, s, logger)}
}

// Create sends body to the backend and appends the created site to the store.
func (c *CreateSite) Create(ctx context.Context, body model.SiteCreate) operation.Result[*model.Site] {
	return operation.Run(ctx, c.Outcome, c.op("site.create"), func(ctx context.Context) (*model.Site, error) {
		created := model.Site{}

		if err := c.clients.Client().Do(ctx, http.MethodPost, pathSites, body, &created); err != nil {
			return nil, err
		}

		if created.ID == 0 && created.Name == "" {
			created = body.Site(0)
		}

		created = c.store.Append(created)

		return &created, nil
	})
}

// UpdateSite updates sites.
type UpdateSite struct {
	mutation
}

func NewUpdateSite(clients client.Getter, s *store.Sites, logger *logrus.Logger) *UpdateSite {
	return &UpdateSite{newMutation(clients, s, logger)}
}

// Update replaces the site identified by id with body, the store copy is updated on success.
func (u *UpdateSite) Update(ctx context.Context, id int64, body model.SiteCreate) operation.Result[*model.Site] {
	return operation.Run(ctx, u.Outcome, u.op("site.update"), func(ctx context.Context) (*model.Site, error) {
		updated := model.Site{}

		if err := u.clients.Client().Do(ctx, http.MethodPut, sitePath(id), body, &updated); err != nil {
			return nil, err
		}

		if updated.ID == 0 {
			updated = body.Site(id)

			if held, ok := u.store.Get(updated.Key()); ok {
				updated.EquipmentIDs = held.EquipmentIDs
			}
		}

		u.store.Update(updated)

		return &updated, nil
	})
}

// DeleteSite deletes sites.
type DeleteSite struct {
	mutation
}

func NewDeleteSite(clients client.Getter, s *store.Sites, logger *logrus.Logger) *DeleteSite {
	return &DeleteSite{newMutation(clients, s, logger)}
}

// Delete removes the site identified by id from the backend, then from the store,
// returning the response payload.
func (d *DeleteSite) Delete(ctx context.Context, id int64) operation.Result[json.RawMessage] {
	return operation.Run(ctx, d.Outcome, d.op("site.delete"), func(ctx context.Context) (json.RawMessage, error) {
		var payload json.RawMessage

		if err := d.clients.Client().Do(ctx, http.MethodDelete, sitePath(id), nil, &payload); err != nil {
			return nil, err
		}

		d.store.Remove(strconv.FormatInt(id, 10))

		if selected := d.store.Selected(); selected != nil && selected.ID == id {
			d.store.ResetSelected()
		}

		return payload, nil
	})
}

// AddEquipmentToSite attaches bornes to a site.
type AddEquipmentToSite struct {
	mutation
}

func NewAddEquipmentToSite(clients client.Getter, s *store.Sites, logger *logrus.Logger) *AddEquipmentToSite {
	return &AddEquipmentToSite{newMutation(clients, s, logger)}
}

// Add attaches the bornes identified by equipmentIDs to the site identified by id.
func (a *AddEquipmentToSite) Add(ctx context.Context, id int64, equipmentIDs []int64) operation.Result[json.RawMessage] {
	return operation.Run(ctx, a.Outcome, a.op("site.equipment.add"), func(ctx context.Context) (json.RawMessage, error) {
		var payload json.RawMessage

		if err := a.clients.Client().Do(ctx, http.MethodPost, sitePath(id)+"/equipments", equipmentIDs, &payload); err != nil {
			return nil, err
		}

		if held, ok := a.store.Get(strconv.FormatInt(id, 10)); ok {
			held.AddEquipment(equipmentIDs)
			a.store.Update(held)
		}

		return payload, nil
	})
}

// RemoveEquipmentFromSite detaches bornes from a site.
type RemoveEquipmentFromSite struct {
	mutation
}

func NewRemoveEquipmentFromSite(clients client.Getter, s *store.Sites, logger *logrus.Logger) *RemoveEquipmentFromSite {
	return &RemoveEquipmentFromSite{newMutation(clients, s, logger)}
}

// Remove detaches the bornes identified by equipmentIDs from the site identified by id.
func (r *RemoveEquipmentFromSite) Remove(ctx context.Context, id int64, equipmentIDs []int64) operation.Result[json.RawMessage] {
	return operation.Run(ctx, r.Outcome, r.op("site.equipment.remove"), func(ctx context.Context) (json.RawMessage, error) {
		var payload json.RawMessage

		if err := r.clients.Client().Do(ctx, http.MethodDelete, sitePath(id)+"/equipments", equipmentIDs, &payload); err != nil {
			return nil, err
		}

		if held, ok := r.store.Get(strconv.FormatInt(id, 10)); ok {
			held.RemoveEquipment(equipmentIDs)
			r.store.Update(held)
		}

		return payload, nil
	})
}
