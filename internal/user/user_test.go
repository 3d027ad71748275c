package user

import (
	"context"
	"net/http"
	"testing"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/fixtures"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return logger
}

func newTestProvider(t *testing.T, backend *fixtures.Backend) *client.Provider {
	t.Helper()

	p, err := client.NewProvider(client.Options{Endpoint: backend.URL, Logger: testLogger()})
	require.Nil(t, err)

	return p
}

func TestUsersList(t *testing.T) {
	tests := []struct {
		name      string
		filter    model.UserFilter
		wantQuery string
	}{
		{"no filter", model.UserFilter{}, "page=0&size=20"},
		{"disabled is not sent", model.UserFilter{Email: "admin", Enabled: false}, "email=admin&page=0&size=20"},
		{"enabled", model.UserFilter{Role: "ADMIN", Enabled: true}, "isEnabled=true&page=0&size=20&role=ADMIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := fixtures.NewBackend(t)
			backend.JSON(http.MethodGet, "/users", http.StatusOK, model.UserPage{
				Users: fixtures.Users,
				Page:  model.Page{TotalElements: 2, TotalPages: 1, Size: 20},
			})

			users := store.NewUsers()
			list := NewUsersList(newTestProvider(t, backend), users, testLogger(), model.Pagination{Size: 20}, tt.filter)

			got, _ := list.Mount(context.Background())
			require.True(t, got.OK())
			assert.Equal(t, fixtures.Users, users.List())

			requests := backend.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, tt.wantQuery, requests[0].RawQuery)
		})
	}
}

func TestCreateUser(t *testing.T) {
	id := uuid.New()

	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodPost, "/users", http.StatusCreated, model.User{UUID: id, Email: "new@example.com"})

	users := store.NewUsers()

	got := NewCreateUser(newTestProvider(t, backend), users, testLogger()).
		Create(context.Background(), model.User{Email: "new@example.com", Role: "USER"})
	require.True(t, got.OK())
	assert.Equal(t, id, got.Data.UUID)

	_, ok := users.Get(id.String())
	assert.True(t, ok)
}

func TestUpdateUser(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodPut, "/users", http.StatusOK, nil)

	users := store.NewUsers()
	users.ReplaceAll(fixtures.Users)

	enabled := fixtures.Users[1]
	enabled.IsEnabled = true

	require.True(t, NewUpdateUser(newTestProvider(t, backend), users, testLogger()).Update(context.Background(), enabled).OK())

	held, _ := users.Get(fixtures.User2ID.String())
	assert.True(t, held.IsEnabled)
}

func TestDeleteUser(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodDelete, "/users/"+fixtures.User1ID.String(), http.StatusOK, "user deleted")

	users := store.NewUsers()
	users.ReplaceAll(fixtures.Users)
	users.Select(fixtures.Users[0])

	del := NewDeleteUser(newTestProvider(t, backend), users, testLogger())

	deleted := del.Delete(context.Background(), fixtures.User1ID)
	require.True(t, deleted.OK())
	assert.JSONEq(t, `"user deleted"`, string(deleted.Data))
	assert.Equal(t, 1, users.Len())
	assert.Nil(t, users.Selected())
}

func TestDeleteUserFailure(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodDelete, "/users/"+fixtures.User2ID.String(), http.StatusInternalServerError, nil)

	users := store.NewUsers()
	users.ReplaceAll(fixtures.Users)

	del := NewDeleteUser(newTestProvider(t, backend), users, testLogger())

	got := del.Delete(context.Background(), fixtures.User2ID)
	assert.False(t, got.OK())
	assert.Equal(t, "request failed with status code 500", got.Message)
	assert.Equal(t, "request failed with status code 500", del.ErrMessage())
	assert.False(t, del.Loading())
	assert.Equal(t, 2, users.Len())
}
