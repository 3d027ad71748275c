package fixtures

import (
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/google/uuid"
)

var (
	User1ID = uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962")
	User2ID = uuid.MustParse("8f14e45f-ceea-467a-9af0-2f9e3b1c6a10")

	Bornes = []model.Borne{
		{
			ID:           1,
			Name:         "borne-nord-01",
			Type:         "AC",
			Status:       "online",
			Manufacturer: "Schneider",
			SiteName:     "Parking Nord",
		},
		{
			ID:           2,
			Name:         "borne-sud-01",
			Type:         "DC",
			Status:       "offline",
			Manufacturer: "ABB",
			SiteName:     "Parking Sud",
		},
	}

	Sites = []model.Site{
		{
			ID:           10,
			Name:         "Parking Nord",
			Address:      "1 rue de Rivoli",
			City:         "Paris",
			PostalCode:   "75001",
			Country:      "France",
			Latitude:     48.8606,
			Longitude:    2.3376,
			EquipmentIDs: []int64{1},
		},
		{
			ID:         11,
			Name:       "Parking Sud",
			Address:    "10 avenue d'Italie",
			City:       "Paris",
			PostalCode: "75013",
			Country:    "France",
			Latitude:   48.8277,
			Longitude:  2.3561,
		},
	}

	Users = []model.User{
		{UUID: User1ID, Email: "admin@example.com", Role: "ADMIN", IsEnabled: true},
		{UUID: User2ID, Email: "tech@example.com", Role: "USER", IsEnabled: false},
	}

	// Status8 is a STATUS8 telemetry payload as published by a Tasmota smart plug.
	Status8 = `{"StatusSNS":{"Time":"2024-03-01T10:15:00","ENERGY":{"TotalStartTime":"2023-11-02T08:00:00",` +
		`"Total":12.345,"Yesterday":1.2,"Today":0.456,"Power":1500,"ApparentPower":1520,"ReactivePower":120,` +
		`"Factor":0.98,"Voltage":230,"Current":6.52}}}`
)

// CopyBornes returns a copy of the Bornes fixture.
func CopyBornes() []model.Borne {
	return append([]model.Borne(nil), Bornes...)
}
