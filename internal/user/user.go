// Package user implements the data access operations on user accounts.
package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	pathUsers = "/users"
)

// UsersList fetches one page of users, a page change refetches.
type UsersList struct {
	*operation.Pager[*model.UserPage]
}

func NewUsersList(
	clients client.Getter,
	s *store.Users,
	logger *logrus.Logger,
	pagination model.Pagination,
	filter model.UserFilter,
) *UsersList {
	fetch := func(ctx context.Context, query url.Values) (*model.UserPage, error) {
		page := &model.UserPage{}

		if err := clients.Client().Do(ctx, http.MethodGet, pathUsers, nil, page, client.WithQuery(query)); err != nil {
			return nil, err
		}

		s.ReplaceAll(page.Users)

		return page, nil
	}

	op := operation.Op{Name: "user.page", Logger: logger}

	return &UsersList{Pager: operation.NewPager(op, pagination, filter, fetch)}
}

// CreateUser creates user accounts.
type CreateUser struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Users
	logger  *logrus.Logger
}

func NewCreateUser(clients client.Getter, s *store.Users, logger *logrus.Logger) *CreateUser {
	return &CreateUser{Outcome: operation.NewOutcome(false), clients: clients, store: s, logger: logger}
}

// Create sends u to the backend, the created account is appended to the store
// when the backend returned its uuid.
func (c *CreateUser) Create(ctx context.Context, u model.User) operation.Result[*model.User] {
	op := operation.Op{Name: "user.create", Logger: c.logger}

	return operation.Run(ctx, c.Outcome, op, func(ctx context.Context) (*model.User, error) {
		created := model.User{}

		if err := c.clients.Client().Do(ctx, http.MethodPost, pathUsers, u, &created); err != nil {
			return nil, err
		}

		if created.UUID != uuid.Nil {
			c.store.Append(created)
		}

		return &created, nil
	})
}

// UpdateUser updates user accounts.
type UpdateUser struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Users
	logger  *logrus.Logger
}

func NewUpdateUser(clients client.Getter, s *store.Users, logger *logrus.Logger) *UpdateUser {
	return &UpdateUser{Outcome: operation.NewOutcome(false), clients: clients, store: s, logger: logger}
}

// Update sends u to the backend, the account is identified by its uuid in the body.
func (up *UpdateUser) Update(ctx context.Context, u model.User) operation.Result[*model.User] {
	op := operation.Op{Name: "user.update", Logger: up.logger}

	return operation.Run(ctx, up.Outcome, op, func(ctx context.Context) (*model.User, error) {
		updated := model.User{}

		if err := up.clients.Client().Do(ctx, http.MethodPut, pathUsers, u, &updated); err != nil {
			return nil, err
		}

		if updated.UUID == uuid.Nil {
			updated = u
		}

		up.store.Update(updated)

		return &updated, nil
	})
}

// DeleteUser deletes user accounts.
type DeleteUser struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Users
	logger  *logrus.Logger
}

func NewDeleteUser(clients client.Getter, s *store.Users, logger *logrus.Logger) *DeleteUser {
	return &DeleteUser{Outcome: operation.NewOutcome(false), clients: clients, store: s, logger: logger}
}

// Delete removes the account identified by id from the backend, then from the store,
// returning the response payload.
func (d *DeleteUser) Delete(ctx context.Context, id uuid.UUID) operation.Result[json.RawMessage] {
	op := operation.Op{Name: "user.delete", Logger: d.logger}

	return operation.Run(ctx, d.Outcome, op, func(ctx context.Context) (json.RawMessage, error) {
		var payload json.RawMessage

		if err := d.clients.Client().Do(ctx, http.MethodDelete, pathUsers+"/"+id.String(), nil, &payload); err != nil {
			return nil, err
		}

		d.store.Remove(id.String())

		if selected := d.store.Selected(); selected != nil && selected.UUID == id {
			d.store.ResetSelected()
		}

		return payload, nil
	})
}
