package model

import "strconv"

// Borne is a charging station equipment.
//
// nolint:govet // fieldalignment struct is easier to read in the current format
type Borne struct {
	ID           int64  `json:"id,omitempty" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	SiteName     string `json:"siteName,omitempty" yaml:"siteName,omitempty"`

	// Telemetry is the last energy reading received from the device stream,
	// it is never sent to the backend.
	Telemetry *Telemetry `json:"-" yaml:"telemetry,omitempty"`
}

// Key returns the store key for the borne.
func (b Borne) Key() string {
	return strconv.FormatInt(b.ID, 10)
}

// AssignFallbackID sets the identifier to n when the server did not assign one.
func (b *Borne) AssignFallbackID(n int) {
	if b.ID == 0 {
		b.ID = int64(n)
	}
}

// EquipmentPage is the paginated equipment list response.
type EquipmentPage struct {
	Equipments []Borne `json:"equipments" yaml:"equipments"`
	Page       `yaml:",inline"`
}
