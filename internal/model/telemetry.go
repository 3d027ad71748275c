package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrTelemetryPayload = errors.New("invalid telemetry payload")
)

// Telemetry holds the energy readings a borne reports on its status channel.
//
// nolint:govet // fieldalignment struct is easier to read in the current format
type Telemetry struct {
	Time           string  `json:"Time,omitempty" yaml:"time,omitempty"`
	TotalStartTime string  `json:"TotalStartTime,omitempty" yaml:"totalStartTime,omitempty"`
	Total          float64 `json:"Total" yaml:"total"`
	Yesterday      float64 `json:"Yesterday" yaml:"yesterday"`
	Today          float64 `json:"Today" yaml:"today"`
	Power          float64 `json:"Power" yaml:"power"`
	ApparentPower  float64 `json:"ApparentPower" yaml:"apparentPower"`
	ReactivePower  float64 `json:"ReactivePower" yaml:"reactivePower"`
	Factor         float64 `json:"Factor" yaml:"factor"`
	Voltage        float64 `json:"Voltage" yaml:"voltage"`
	Current        float64 `json:"Current" yaml:"current"`
}

// status8 is the device STATUS8 message
//
//	{"StatusSNS":{"Time":"2024-05-01T10:00:00","ENERGY":{"Total":12.3,"Power":120, ...}}}
type status8 struct {
	StatusSNS *struct {
		Time   string     `json:"Time"`
		Energy *Telemetry `json:"ENERGY"`
	} `json:"StatusSNS"`
	Energy *Telemetry `json:"ENERGY"`
}

// ParseStatus8 decodes the energy readings from a device STATUS8 message.
//
// Both the full message and its bare StatusSNS body are accepted.
func ParseStatus8(payload string) (*Telemetry, error) {
	msg := &status8{}
	if err := json.Unmarshal([]byte(payload), msg); err != nil {
		return nil, errors.Wrap(ErrTelemetryPayload, err.Error())
	}

	switch {
	case msg.StatusSNS != nil && msg.StatusSNS.Energy != nil:
		t := msg.StatusSNS.Energy
		if t.Time == "" {
			t.Time = msg.StatusSNS.Time
		}

		return t, nil
	case msg.Energy != nil:
		return msg.Energy, nil
	}

	return nil, errors.Wrap(ErrTelemetryPayload, "no ENERGY readings in message")
}
