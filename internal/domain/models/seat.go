package models

// SeatCell is one position in the seat picker. Aisle cells have no number.
type SeatCell struct {
	Number      int    `json:"number,omitempty"`
	Aisle       bool   `json:"aisle,omitempty"`
	Occupied    bool   `json:"occupied"`
	Gender      Gender `json:"gender,omitempty"` // occupant, display colour only
	PassengerID string `json:"passenger_id,omitempty"`
}

type SeatMap struct {
	BusID         string       `json:"bus_id"`
	MaxPassengers int          `json:"max_passengers"`
	Occupied      int          `json:"occupied"`
	Available     int          `json:"available"`
	Rows          [][]SeatCell `json:"rows"`
}
