// Package site implements the data access operations on sites.
package site

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	pathSites     = "/sites"
	pathSitesAll  = "/sites/all"
	pathSiteNames = "/sites/names"
)

// SiteList fetches every site.
type SiteList struct {
	*operation.Outcome

	clients client.Getter
	store   *store.Sites
	logger  *logrus.Logger
	mount   sync.Once
}

func NewSiteList(clients client.Getter, s *store.Sites, logger *logrus.Logger) *SiteList {
	return &SiteList{
		Outcome: operation.NewOutcome(false),
		clients: clients,
		store:   s,
		logger:  logger,
	}
}

// Fetch replaces the store contents with the sites returned by the backend.
func (l *SiteList) Fetch(ctx context.Context) operation.Result[[]model.Site] {
	op := operation.Op{Name: "site.list", Logger: l.logger}

	return operation.Run(ctx, l.Outcome, op, func(ctx context.Context) ([]model.Site, error) {
		var sites []model.Site

		if err := l.clients.Client().Do(ctx, http.MethodGet, pathSitesAll, nil, &sites); err != nil {
			return nil, err
		}

		l.store.ReplaceAll(sites)

		return sites, nil
	})
}

// Mount runs Fetch once.
func (l *SiteList) Mount(ctx context.Context) {
	l.mount.Do(func() { l.Fetch(ctx) })
}

// PaginatedSiteList fetches one page of sites, a page change refetches.
type PaginatedSiteList struct {
	*operation.Pager[*model.SitePage]
}

func NewPaginatedSiteList(
	clients client.Getter,
	s *store.Sites,
	logger *logrus.Logger,
	pagination model.Pagination,
	filter model.SiteFilter,
) *PaginatedSiteList {
	fetch := func(ctx context.Context, query url.Values) (*model.SitePage, error) {
		page := &model.SitePage{}

		if err := clients.Client().Do(ctx, http.MethodGet, pathSites, nil, page, client.WithQuery(query)); err != nil {
			return nil, err
		}

		s.ReplaceAll(page.Sites)

		return page, nil
	}

	op := operation.Op{Name: "site.page", Logger: logger}

	return &PaginatedSiteList{Pager: operation.NewPager(op, pagination, filter, fetch)}
}

// SiteNamesList fetches the names of all sites.
type SiteNamesList struct {
	*operation.Outcome

	clients client.Getter
	logger  *logrus.Logger
}

func NewSiteNamesList(clients client.Getter, logger *logrus.Logger) *SiteNamesList {
	return &SiteNamesList{Outcome: operation.NewOutcome(true), clients: clients, logger: logger}
}

func (l *SiteNamesList) Fetch(ctx context.Context) operation.Result[[]string] {
	op := operation.Op{Name: "site.names", Logger: l.logger}

	return operation.Run(ctx, l.Outcome, op, func(ctx context.Context) ([]string, error) {
		var names []string

		if err := l.clients.Client().Do(ctx, http.MethodGet, pathSiteNames, nil, &names); err != nil {
			return nil, err
		}

		return names, nil
	})
}
