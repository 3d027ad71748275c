package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus8(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *Telemetry
		wantErr error
	}{
		{
			"full message",
			`{"StatusSNS":{"Time":"2024-05-01T10:00:00","ENERGY":{"Total":12.5,"Today":0.5,"Power":120,"Voltage":231,"Current":0.52}}}`,
			&Telemetry{Time: "2024-05-01T10:00:00", Total: 12.5, Today: 0.5, Power: 120, Voltage: 231, Current: 0.52},
			nil,
		},
		{
			"bare body",
			`{"ENERGY":{"Power":7.5}}`,
			&Telemetry{Power: 7.5},
			nil,
		},
		{
			"no energy readings",
			`{"StatusSNS":{"Time":"2024-05-01T10:00:00"}}`,
			nil,
			ErrTelemetryPayload,
		},
		{
			"not json",
			`hello`,
			nil,
			ErrTelemetryPayload,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStatus8(tc.payload)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAssignFallbackID(t *testing.T) {
	b := &Borne{Name: "B1"}
	b.AssignFallbackID(3)
	assert.Equal(t, int64(3), b.ID)

	b = &Borne{ID: 7, Name: "B1"}
	b.AssignFallbackID(3)
	assert.Equal(t, int64(7), b.ID)

	s := &Site{}
	s.AssignFallbackID(1)
	assert.Equal(t, int64(1), s.ID)
}

func TestSiteEquipment(t *testing.T) {
	s := Site{ID: 1, EquipmentIDs: []int64{1, 2}}

	s.AddEquipment([]int64{2, 3})
	assert.Equal(t, []int64{1, 2, 3}, s.EquipmentIDs)

	s.RemoveEquipment([]int64{1, 3, 9})
	assert.Equal(t, []int64{2}, s.EquipmentIDs)

	created := SiteCreate{Name: "Parking", City: "Paris", Latitude: 48.85}.Site(4)
	assert.Equal(t, Site{ID: 4, Name: "Parking", City: "Paris", Latitude: 48.85}, created)
}
