package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

// PassengerStatus: pondok travels at the fixed fare without meals, umum pays meals too.
type PassengerStatus string

const (
	StatusPondok PassengerStatus = "pondok"
	StatusUmum   PassengerStatus = "umum"
)

// UmumGroupPrefix marks group labels synthesized for umum passengers.
const UmumGroupPrefix = "U-"

type Passenger struct {
	ID            string          `json:"id"`
	PeriodID      string          `json:"period_id"`
	Name          string          `json:"name"`
	Gender        Gender          `json:"gender"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone,omitempty"`
	Destination   string          `json:"destination"`
	Status        PassengerStatus `json:"status"`
	GroupPondok   string          `json:"group_pondok"`
	DaerahPondok  string          `json:"daerah_pondok,omitempty"`
	Kelompok      string          `json:"kelompok,omitempty"`
	BusID         string          `json:"bus_id,omitempty"`
	BusSeatNumber int             `json:"bus_seat_number,omitempty"`
	MealCount     int             `json:"meal_count"`
	MealPayment   decimal.Decimal `json:"meal_payment"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	Petugas       string          `json:"petugas"`
	CreatedAt     time.Time       `json:"created_at"`
}

// GroupLabel derives the display group. For umum passengers it is built from
// daerah and kelompok, which stay the source of truth.
func (p Passenger) GroupLabel() string {
	if p.Status == StatusUmum {
		return UmumGroupLabel(p.DaerahPondok, p.Kelompok)
	}
	return p.GroupPondok
}

// HasSeat reports whether the passenger currently holds a seat.
func (p Passenger) HasSeat() bool {
	return p.BusID != "" && p.BusSeatNumber > 0
}

func UmumGroupLabel(daerah, kelompok string) string {
	return UmumGroupPrefix + strings.TrimSpace(daerah) + "-" + strings.TrimSpace(kelompok)
}

// PassengerInput is validated identically for create and update.
type PassengerInput struct {
	Name          string          `json:"name" validate:"required"`
	Gender        Gender          `json:"gender" validate:"required,oneof=L P"`
	Address       string          `json:"address" validate:"required"`
	Phone         string          `json:"phone" validate:"required_if=Status umum"`
	Status        PassengerStatus `json:"status" validate:"required,oneof=pondok umum"`
	GroupPondok   string          `json:"group_pondok" validate:"required_if=Status pondok"`
	DaerahPondok  string          `json:"daerah_pondok" validate:"required_if=Status umum"`
	Kelompok      string          `json:"kelompok" validate:"required_if=Status umum"`
	BusID         string          `json:"bus_id"`
	BusSeatNumber int             `json:"bus_seat_number" validate:"required_with=BusID"`
	MealCount     *int            `json:"meal_count" validate:"omitempty,gte=0"`
	Petugas       string          `json:"petugas" validate:"required"`
}

// OccupiedSeat is one taken seat on a bus.
type OccupiedSeat struct {
	PassengerID string `json:"passenger_id"`
	Gender      Gender `json:"gender"`
	SeatNumber  int    `json:"seat_number"`
}
