package services

import (
	"busbooking/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Billing is the server-side price of one seat.
type Billing struct {
	MealCount    int             `json:"meal_count"`
	MealPayment  decimal.Decimal `json:"meal_payment"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}

// ComputeBilling prices a passenger from the bus record. Pondok passengers
// never pay meals; umum passengers take explicitMealCount or the bus default.
func ComputeBilling(bus models.Bus, status models.PassengerStatus, explicitMealCount *int) Billing {
	mealCount := 0
	if status != models.StatusPondok {
		mealCount = bus.MealCount
		if explicitMealCount != nil {
			mealCount = *explicitMealCount
		}
	}
	mealPayment := bus.MealPrice.Mul(decimal.NewFromInt(int64(mealCount)))
	return Billing{
		MealCount:    mealCount,
		MealPayment:  mealPayment,
		TotalPayment: bus.FarePerPassenger.Add(mealPayment),
	}
}

func applyBilling(p *models.Passenger, b Billing) {
	p.MealCount = b.MealCount
	p.MealPayment = b.MealPayment
	p.TotalPayment = b.TotalPayment
}
