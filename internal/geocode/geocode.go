// Package geocode resolves postal addresses to coordinates with a Nominatim search API.
package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultEndpoint is the public OpenStreetMap Nominatim instance.
	DefaultEndpoint = "https://nominatim.openstreetmap.org"

	// MessageNotFound is recorded when the search returned no candidate.
	MessageNotFound = "Adresse introuvable"

	// MessageFailure is recorded when the search could not be completed.
	MessageFailure = "Une erreur est survenue lors de la recherche de l'adresse"

	pathSearch = "search"
)

var (
	ErrNotFound = errors.New(MessageNotFound)
	ErrFailure  = errors.New(MessageFailure)
)

// candidate is a search result, coordinates are decimal strings.
type candidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// AddressValidation geocodes addresses entered for sites.
type AddressValidation struct {
	*operation.Outcome

	client *client.Client
	logger *logrus.Logger
}

// New returns an AddressValidation, its client is separate from the backend client
// and never sends credentials or cookies.
func New(opts client.Options) (*AddressValidation, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}

	opts.DisableCookies = true

	c, err := client.New(opts)
	if err != nil {
		return nil, err
	}

	return &AddressValidation{
		Outcome: operation.NewOutcome(false),
		client:  c,
		logger:  opts.Logger,
	}, nil
}

// Query returns the free form search query for an address.
func Query(address, city, postalCode, country string) string {
	return strings.Join([]string{address, city, postalCode, country}, ", ")
}

// Geocode returns the coordinates of the first search candidate for the address,
// nil when there is none or the search failed, the reason is recorded in the error slot.
//
// A successful search clears the error slot.
func (a *AddressValidation) Geocode(ctx context.Context, address, city, postalCode, country string) *model.Coordinates {
	op := operation.Op{Name: "geocode.search", Logger: a.logger, ClearError: true}
	query := url.Values{"format": {"json"}, "q": {Query(address, city, postalCode, country)}}

	return operation.Run(ctx, a.Outcome, op, func(ctx context.Context) (*model.Coordinates, error) {
		var candidates []candidate

		if err := a.client.Do(ctx, http.MethodGet, pathSearch, nil, &candidates, client.WithQuery(query), client.WithoutCredentials()); err != nil {
			return nil, a.failure(query, err)
		}

		if len(candidates) == 0 {
			return nil, ErrNotFound
		}

		lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
		if err != nil {
			return nil, a.failure(query, err)
		}

		lon, err := strconv.ParseFloat(candidates[0].Lon, 64)
		if err != nil {
			return nil, a.failure(query, err)
		}

		return &model.Coordinates{Latitude: lat, Longitude: lon}, nil
	}).Data
}

// the cause is logged, the recorded message stays generic
func (a *AddressValidation) failure(query url.Values, err error) error {
	if a.logger != nil {
		a.logger.WithError(err).WithField("q", query.Get("q")).Debug("address search failed")
	}

	return ErrFailure
}
