package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	tests := []struct {
		name       string
		pagination Pagination
		filter     Filter
		want       url.Values
	}{
		{
			"page and size only",
			Pagination{Page: 0, Size: 10},
			EquipmentFilter{},
			url.Values{"page": {"0"}, "size": {"10"}},
		},
		{
			"nil filter",
			Pagination{Page: 2, Size: 5},
			nil,
			url.Values{"page": {"2"}, "size": {"5"}},
		},
		{
			"equipment filters set are included",
			Pagination{Page: 1, Size: 20},
			EquipmentFilter{Name: "B1", Status: "AVAILABLE", SiteName: "Paris"},
			url.Values{
				"page":     {"1"},
				"size":     {"20"},
				"name":     {"B1"},
				"status":   {"AVAILABLE"},
				"siteName": {"Paris"},
			},
		},
		{
			"site filters",
			Pagination{Page: 0, Size: 10},
			SiteFilter{City: "Lyon", PostalCode: "69001"},
			url.Values{"page": {"0"}, "size": {"10"}, "city": {"Lyon"}, "postalCode": {"69001"}},
		},
		{
			"user disabled filter omitted",
			Pagination{Page: 0, Size: 10},
			UserFilter{Email: "a@b.c", Enabled: false},
			url.Values{"page": {"0"}, "size": {"10"}, "email": {"a@b.c"}},
		},
		{
			"user enabled filter included",
			Pagination{Page: 0, Size: 10},
			UserFilter{Role: "ADMIN", Enabled: true},
			url.Values{"page": {"0"}, "size": {"10"}, "role": {"ADMIN"}, "isEnabled": {"true"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Query(tc.pagination, tc.filter))
		})
	}
}

func TestQueryOmitsEmptyFilters(t *testing.T) {
	got := Query(Pagination{Page: 0, Size: 10}, EquipmentFilter{Name: "", Type: ""}).Encode()
	assert.Equal(t, "page=0&size=10", got)
	assert.NotContains(t, got, "name=")
	assert.NotContains(t, got, "type=")
}

func TestStatusTopic(t *testing.T) {
	assert.Equal(t, "stat/borne-12/STATUS8", StatusTopic("borne-12"))
}
