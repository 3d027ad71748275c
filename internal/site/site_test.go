package site

import (
	"context"
	"net/http"
	"testing"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/fixtures"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
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

func heldSites() *store.Sites {
	sites := store.NewSites()
	sites.ReplaceAll([]model.Site{
		{ID: 10, Name: "Parking Nord", EquipmentIDs: []int64{1}},
		{ID: 11, Name: "Parking Sud"},
	})

	return sites
}

func TestSiteList(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodGet, "/sites/all", http.StatusOK, fixtures.Sites)

	sites := store.NewSites()
	list := NewSiteList(newTestProvider(t, backend), sites, testLogger())

	assert.False(t, list.Loading())

	list.Mount(context.Background())
	list.Mount(context.Background())

	assert.Equal(t, 2, sites.Len())
	assert.Len(t, backend.Requests(), 1)
}

func TestPaginatedSiteList(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodGet, "/sites", http.StatusOK, model.SitePage{
		Sites: fixtures.Sites,
		Page:  model.Page{TotalElements: 2, TotalPages: 1, Page: 0, Size: 10},
	})

	sites := store.NewSites()
	list := NewPaginatedSiteList(
		newTestProvider(t, backend),
		sites,
		testLogger(),
		model.Pagination{Page: 0, Size: 10},
		model.SiteFilter{City: "Paris", Country: ""},
	)

	got, _ := list.Mount(context.Background())
	require.True(t, got.OK())
	assert.Equal(t, 1, got.Data.TotalPages)
	assert.Equal(t, 2, sites.Len())

	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "city=Paris&page=0&size=10", requests[0].RawQuery)
}

func TestSiteNamesList(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodGet, "/sites/names", http.StatusOK, []string{"Parking Nord", "Parking Sud"})

	names := NewSiteNamesList(newTestProvider(t, backend), testLogger())
	assert.True(t, names.Loading())

	got := names.Fetch(context.Background())
	require.True(t, got.OK())
	assert.Equal(t, []string{"Parking Nord", "Parking Sud"}, got.Data)
	assert.False(t, names.Loading())
}

func TestCreateSite(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodPost, "/sites", http.StatusCreated, model.Site{ID: 12, Name: "Gare"})

	sites := heldSites()
	create := NewCreateSite(newTestProvider(t, backend), sites, testLogger())

	body := model.SiteCreate{Name: "Gare", City: "Lyon"}
	body.SetCoordinates(&model.Coordinates{Latitude: 45.76, Longitude: 4.83})

	got := create.Create(context.Background(), body)
	require.True(t, got.OK())
	assert.Equal(t, int64(12), got.Data.ID)
	assert.Equal(t, 3, sites.Len())

	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.JSONEq(t,
		`{"name":"Gare","address":"","city":"Lyon","postalCode":"","country":"","latitude":45.76,"longitude":4.83}`,
		requests[0].Body,
	)
}

func TestUpdateSite(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodPut, "/sites/10", http.StatusOK, nil)

	sites := heldSites()
	update := NewUpdateSite(newTestProvider(t, backend), sites, testLogger())

	got := update.Update(context.Background(), 10, model.SiteCreate{Name: "Parking Nord Est"})
	require.True(t, got.OK())

	held, ok := sites.Get("10")
	require.True(t, ok)
	assert.Equal(t, "Parking Nord Est", held.Name)
	assert.Equal(t, []int64{1}, held.EquipmentIDs)

	got = update.Update(context.Background(), 99, model.SiteCreate{Name: "ghost"})
	assert.False(t, got.OK())
	assert.Equal(t, "request failed with status code 404", update.ErrMessage())
}

func TestDeleteSite(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodDelete, "/sites/11", http.StatusOK, map[string]any{"id": 11})

	sites := heldSites()
	sites.Select(model.Site{ID: 11})

	del := NewDeleteSite(newTestProvider(t, backend), sites, testLogger())

	deleted := del.Delete(context.Background(), 11)
	require.True(t, deleted.OK())
	assert.JSONEq(t, `{"id":11}`, string(deleted.Data))
	assert.Equal(t, 1, sites.Len())
	assert.Nil(t, sites.Selected())
}

func TestSiteEquipment(t *testing.T) {
	backend := fixtures.NewBackend(t)
	backend.JSON(http.MethodPost, "/sites/10/equipments", http.StatusOK, map[string]any{"id": 10, "equipmentIds": []int64{1, 2, 3}})
	backend.JSON(http.MethodDelete, "/sites/10/equipments", http.StatusOK, nil)

	sites := heldSites()
	provider := newTestProvider(t, backend)

	added := NewAddEquipmentToSite(provider, sites, testLogger()).Add(context.Background(), 10, []int64{2, 3})
	require.True(t, added.OK())
	assert.JSONEq(t, `{"id":10,"equipmentIds":[1,2,3]}`, string(added.Data))

	held, _ := sites.Get("10")
	assert.Equal(t, []int64{1, 2, 3}, held.EquipmentIDs)

	removed := NewRemoveEquipmentFromSite(provider, sites, testLogger()).Remove(context.Background(), 10, []int64{1})
	require.True(t, removed.OK())
	assert.Nil(t, removed.Data)

	held, _ = sites.Get("10")
	assert.Equal(t, []int64{2, 3}, held.EquipmentIDs)

	requests := backend.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "[2,3]", requests[0].Body)
	assert.Equal(t, http.MethodDelete, requests[1].Method)
	assert.Equal(t, "[1]", requests[1].Body)
}
