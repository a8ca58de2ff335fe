package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bus belongs to one period; bus_number counts up per (period, destination).
type Bus struct {
	ID               string          `json:"id"`
	PeriodID         string          `json:"period_id"`
	Destination      string          `json:"destination"`
	BusNumber        int             `json:"bus_number"`
	MaxPassengers    int             `json:"max_passengers"`
	FarePerPassenger decimal.Decimal `json:"fare_per_passenger"`
	MealCount        int             `json:"meal_count"`
	MealPrice        decimal.Decimal `json:"meal_price"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Label renders the bus the way tickets and sheet names show it.
func (b Bus) Label() string {
	return fmt.Sprintf("%s #%d", b.Destination, b.BusNumber)
}

// BusInput is shared by create and update. Destination is only read on create.
// On update, nil pricing fields and a nil meal_count keep the stored values.
type BusInput struct {
	Destination      string           `json:"destination" validate:"required"`
	MaxPassengers    int              `json:"max_passengers" validate:"required,gte=1,lte=100"`
	FarePerPassenger *decimal.Decimal `json:"fare_per_passenger"`
	MealCount        *int             `json:"meal_count" validate:"omitempty,gte=0"`
	MealPrice        *decimal.Decimal `json:"meal_price"`
}

// BusWithOccupancy is a list row: the bus plus its current seat usage.
type BusWithOccupancy struct {
	Bus
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}
