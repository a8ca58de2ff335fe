package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kitchen categories used by the manifest.
const (
	KitchenFirma   = "Firma"
	KitchenMbahman = "Mbahman"
)

// ManifestRow is one passenger line on a bus sheet.
type ManifestRow struct {
	SeatNumber   int             `json:"seat_number"`
	Name         string          `json:"name"`
	Gender       Gender          `json:"gender"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Destination  string          `json:"destination"`
	GroupPondok  string          `json:"group_pondok"`
	Kitchen      string          `json:"kitchen"`
	MealCount    int             `json:"meal_count"`
	MealPayment  decimal.Decimal `json:"meal_payment"`
	Fare         decimal.Decimal `json:"fare"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	BookedAt     time.Time       `json:"booked_at"`
}

// ManifestTotals is the trailing totals line of a bus sheet.
type ManifestTotals struct {
	MealCount    int             `json:"meal_count"`
	MealPayment  decimal.Decimal `json:"meal_payment"`
	Fare         decimal.Decimal `json:"fare"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}

// BusSummary is one row of the summary sheet.
type BusSummary struct {
	SheetName       string          `json:"sheet_name"`
	PassengerCount  int             `json:"passenger_count"`
	TotalUmum       int             `json:"total_umum"`
	TotalPondok     int             `json:"total_pondok"`
	PondokMealTotal int             `json:"pondok_meal_total"`
	UmumMealCount   int             `json:"umum_meal_count"`
	UmumMealPayment decimal.Decimal `json:"umum_meal_payment"`
	TotalFare       decimal.Decimal `json:"total_fare"`
	TotalPayment    decimal.Decimal `json:"total_payment"`
	FirmaCount      int             `json:"firma_count"`
	MbahmanCount    int             `json:"mbahman_count"`
}

type BusManifest struct {
	Bus       Bus            `json:"bus"`
	SheetName string         `json:"sheet_name"`
	Rows      []ManifestRow  `json:"rows"`
	Totals    ManifestTotals `json:"totals"`
	Summary   BusSummary     `json:"summary"`
}

// Manifest is the whole report for one period, buses ordered by sheet name.
type Manifest struct {
	Period Period        `json:"period"`
	Buses  []BusManifest `json:"buses"`
}
