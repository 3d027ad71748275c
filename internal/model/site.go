package model

import (
	"slices"
	"strconv"
)

// Site hosts bornes.
//
// nolint:govet // fieldalignment struct is easier to read in the current format
type Site struct {
	ID         int64   `json:"id,omitempty" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Address    string  `json:"address,omitempty" yaml:"address,omitempty"`
	City       string  `json:"city,omitempty" yaml:"city,omitempty"`
	PostalCode string  `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	Country    string  `json:"country,omitempty" yaml:"country,omitempty"`
	Latitude   float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`

	// EquipmentIDs lists the bornes attached to the site, the relationship is
	// changed through the site equipments endpoints only.
	EquipmentIDs []int64 `json:"equipmentIds,omitempty" yaml:"equipmentIds,omitempty"`
}

// Key returns the store key for the site.
func (s Site) Key() string {
	return strconv.FormatInt(s.ID, 10)
}

// AssignFallbackID sets the identifier to n when the server did not assign one.
func (s *Site) AssignFallbackID(n int) {
	if s.ID == 0 {
		s.ID = int64(n)
	}
}

// SiteCreate is the request body to create or update a site.
type SiteCreate struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// SetCoordinates sets the site position from geocoded coordinates.
func (s *SiteCreate) SetCoordinates(c *Coordinates) {
	if c == nil {
		return
	}

	s.Latitude = c.Latitude
	s.Longitude = c.Longitude
}

// SitePage is the paginated site list response.
type SitePage struct {
	Sites []Site `json:"sites" yaml:"sites"`
	Page  `yaml:",inline"`
}

// Coordinates is a geographic position.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Site returns the site described by the request body with the given identifier.
func (s SiteCreate) Site(id int64) Site {
	return Site{
		ID:         id,
		Name:       s.Name,
		Address:    s.Address,
		City:       s.City,
		PostalCode: s.PostalCode,
		Country:    s.Country,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
	}
}

// AddEquipment attaches the bornes identified by ids, ids already attached are skipped.
func (s *Site) AddEquipment(ids []int64) {
	for _, id := range ids {
		if !slices.Contains(s.EquipmentIDs, id) {
			s.EquipmentIDs = append(s.EquipmentIDs, id)
		}
	}
}

// RemoveEquipment detaches the bornes identified by ids.
func (s *Site) RemoveEquipment(ids []int64) {
	kept := make([]int64, 0, len(s.EquipmentIDs))

	for _, held := range s.EquipmentIDs {
		if !slices.Contains(ids, held) {
			kept = append(kept, held)
		}
	}

	s.EquipmentIDs = kept
}
