package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/shopspring/decimal"
)

// ManifestFilename is the download name of the exported workbook.
const ManifestFilename = "Export Penumpang.xlsx"

// excel sheet names are capped at 31 characters and may not contain these
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// ManifestService is a read-only report over stored passengers.
type ManifestService struct {
	Periods    PeriodStore
	Buses      BusStore
	Passengers PassengerStore
	RequestID  string
}

// BuildManifest groups the period's seated passengers by bus and computes
// per-bus totals and the summary row of every bus.
func (s ManifestService) BuildManifest(ctx context.Context, periodID string) (models.Manifest, error) {
	period, err := s.Periods.Get(ctx, periodID)
	if err != nil {
		return models.Manifest{}, err
	}
	buses, err := s.Buses.ListByPeriod(ctx, periodID)
	if err != nil {
		return models.Manifest{}, err
	}
	passengers, err := s.Passengers.List(ctx,
		[]domain.Filter{domain.Eq("period_id", periodID)},
		[]domain.Sort{{Field: "bus_seat_number", Direction: "asc"}},
	)
	if err != nil {
		return models.Manifest{}, err
	}

	byBus := map[string][]models.Passenger{}
	for _, p := range passengers {
		if p.BusID != "" {
			byBus[p.BusID] = append(byBus[p.BusID], p)
		}
	}

	out := models.Manifest{Period: period, Buses: make([]models.BusManifest, 0, len(buses))}
	used := map[string]bool{strings.ToLower(SummarySheet): true}
	for _, b := range buses {
		name := uniqueSheetName(SheetName(b), used)
		out.Buses = append(out.Buses, buildBusManifest(b, name, byBus[b.ID]))
	}
	sort.SliceStable(out.Buses, func(i, j int) bool { return out.Buses[i].SheetName < out.Buses[j].SheetName })

	utils.LogEvent(s.RequestID, "manifest", "build", fmt.Sprintf("period_id=%s buses=%d passengers=%d", periodID, len(out.Buses), len(passengers)))
	return out, nil
}

// ExportManifest renders the manifest as an xlsx workbook.
func (s ManifestService) ExportManifest(ctx context.Context, periodID string) ([]byte, string, error) {
	m, err := s.BuildManifest(ctx, periodID)
	if err != nil {
		return nil, "", err
	}
	data, err := renderManifestXLSX(m)
	if err != nil {
		utils.LogEvent(s.RequestID, "manifest", "export_failed", err.Error())
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "manifest", "export", fmt.Sprintf("period_id=%s bytes=%d", periodID, len(data)))
	return data, ManifestFilename, nil
}

func buildBusManifest(b models.Bus, sheetName string, passengers []models.Passenger) models.BusManifest {
	sort.SliceStable(passengers, func(i, j int) bool { return passengers[i].BusSeatNumber < passengers[j].BusSeatNumber })

	bm := models.BusManifest{
		Bus:       b,
		SheetName: sheetName,
		Rows:      make([]models.ManifestRow, 0, len(passengers)),
		Totals: models.ManifestTotals{
			MealPayment:  decimal.Zero,
			Fare:         decimal.Zero,
			TotalPayment: decimal.Zero,
		},
		Summary: models.BusSummary{
			SheetName:       sheetName,
			UmumMealPayment: decimal.Zero,
			TotalFare:       decimal.Zero,
			TotalPayment:    decimal.Zero,
		},
	}

	for _, p := range passengers {
		row := models.ManifestRow{
			SeatNumber:   p.BusSeatNumber,
			Name:         p.Name,
			Gender:       p.Gender,
			Phone:        p.Phone,
			Address:      p.Address,
			Destination:  p.Destination,
			GroupPondok:  p.GroupPondok,
			Kitchen:      utils.KitchenCategory(p.GroupPondok),
			MealCount:    p.MealCount,
			MealPayment:  p.MealPayment,
			Fare:         b.FarePerPassenger,
			TotalPayment: p.TotalPayment,
			BookedAt:     p.CreatedAt,
		}
		bm.Rows = append(bm.Rows, row)

		bm.Totals.MealCount += row.MealCount
		bm.Totals.MealPayment = bm.Totals.MealPayment.Add(row.MealPayment)
		bm.Totals.Fare = bm.Totals.Fare.Add(row.Fare)
		bm.Totals.TotalPayment = bm.Totals.TotalPayment.Add(row.TotalPayment)

		sum := &bm.Summary
		sum.PassengerCount++
		if strings.HasPrefix(p.GroupPondok, models.UmumGroupPrefix) {
			sum.TotalUmum++
			sum.UmumMealCount += row.MealCount
			sum.UmumMealPayment = sum.UmumMealPayment.Add(row.MealPayment)
		} else {
			sum.TotalPondok++
		}
		sum.TotalFare = sum.TotalFare.Add(row.Fare)
		sum.TotalPayment = sum.TotalPayment.Add(row.TotalPayment)
		if row.Kitchen == models.KitchenFirma {
			sum.FirmaCount++
		} else {
			sum.MbahmanCount++
		}
	}
	bm.Summary.PondokMealTotal = bm.Summary.TotalPondok * utils.PondokMealMultiplier(b.Destination)
	return bm
}

// SheetName is "<destination> <bus_number>", made safe for a worksheet name.
func SheetName(b models.Bus) string {
	name := utils.NormalizeSpace(sheetNameReplacer.Replace(fmt.Sprintf("%s %d", b.Destination, b.BusNumber)))
	name = strings.Trim(name, "'")
	if name == "" {
		name = fmt.Sprintf("Bus %d", b.BusNumber)
	}
	return truncateRunes(name, maxSheetName)
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
