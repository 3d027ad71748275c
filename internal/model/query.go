package model

import (
	"net/url"
	"strconv"
)

// Pagination is the page selection sent with paginated list queries.
type Pagination struct {
	Page int
	Size int
}

// Values returns the query parameters for the page selection,
// page and size are always included.
func (p Pagination) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("size", strconv.Itoa(p.Size))

	return v
}

// EquipmentFilter holds the optional equipment list filters.
type EquipmentFilter struct {
	Name         string
	Type         string
	Status       string
	Manufacturer string
	SiteName     string
}

// Apply adds the filters set to the query parameters.
func (f EquipmentFilter) Apply(v url.Values) {
	setIfPresent(v, "name", f.Name)
	setIfPresent(v, "type", f.Type)
	setIfPresent(v, "status", f.Status)
	setIfPresent(v, "manufacturer", f.Manufacturer)
	setIfPresent(v, "siteName", f.SiteName)
}

// SiteFilter holds the optional site list filters.
type SiteFilter struct {
	Name       string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Apply adds the filters set to the query parameters.
func (f SiteFilter) Apply(v url.Values) {
	setIfPresent(v, "name", f.Name)
	setIfPresent(v, "address", f.Address)
	setIfPresent(v, "city", f.City)
	setIfPresent(v, "postalCode", f.PostalCode)
	setIfPresent(v, "country", f.Country)
}

// UserFilter holds the optional user list filters.
//
// Enabled is only sent when true, an unset filter and false are equivalent.
type UserFilter struct {
	Email   string
	Role    string
	Enabled bool
}

// Apply adds the filters set to the query parameters.
func (f UserFilter) Apply(v url.Values) {
	setIfPresent(v, "email", f.Email)
	setIfPresent(v, "role", f.Role)

	if f.Enabled {
		v.Set("isEnabled", strconv.FormatBool(f.Enabled))
	}
}

// Filter is implemented by the list filters.
type Filter interface {
	Apply(v url.Values)
}

// Query returns the query parameters for a page selection with the filter applied.
func Query(p Pagination, f Filter) url.Values {
	v := p.Values()
	if f != nil {
		f.Apply(v)
	}

	return v
}

// an empty filter is omitted, never sent as an empty string.
func setIfPresent(v url.Values, key, value string) {
	if value == "" {
		return
	}

	v.Set(key, value)
}
