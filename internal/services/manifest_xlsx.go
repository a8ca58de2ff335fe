package services

import (
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the first worksheet of the export.
const SummarySheet = "Ringkasan"

var (
	summaryHeader = []any{
		"Bus", "Jumlah Penumpang", "Total Umum", "Total Pondok", "Makan Pondok",
		"Makan Umum", "Bayar Makan Umum", "Total Ongkos", "Total Pembayaran", "Firma", "Mbahman",
	}
	busHeader = []any{
		"No Kursi", "Nama", "L/P", "No HP", "Alamat", "Tujuan", "Kelompok", "Dapur",
		"Jumlah Makan", "Bayar Makan", "Ongkos", "Total Bayar", "Tanggal Daftar",
	}
)

func renderManifestXLSX(m models.Manifest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, m, bold); err != nil {
		return nil, err
	}
	for _, bm := range m.Buses {
		if _, err := f.NewSheet(bm.SheetName); err != nil {
			return nil, err
		}
		if err := writeBusSheet(f, bm, bold); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, m models.Manifest, bold int) error {
	if err := setRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}
	var total models.BusSummary
	row := 2
	for _, bm := range m.Buses {
		s := bm.Summary
		if err := setRow(f, SummarySheet, row, []any{
			s.SheetName, s.PassengerCount, s.TotalUmum, s.TotalPondok, s.PondokMealTotal,
			s.UmumMealCount, money(s.UmumMealPayment), money(s.TotalFare), money(s.TotalPayment),
			s.FirmaCount, s.MbahmanCount,
		}); err != nil {
			return err
		}
		total.PassengerCount += s.PassengerCount
		total.TotalUmum += s.TotalUmum
		total.TotalPondok += s.TotalPondok
		total.PondokMealTotal += s.PondokMealTotal
		total.UmumMealCount += s.UmumMealCount
		total.UmumMealPayment = total.UmumMealPayment.Add(s.UmumMealPayment)
		total.TotalFare = total.TotalFare.Add(s.TotalFare)
		total.TotalPayment = total.TotalPayment.Add(s.TotalPayment)
		total.FirmaCount += s.FirmaCount
		total.MbahmanCount += s.MbahmanCount
		row++
	}
	if err := setRow(f, SummarySheet, row, []any{
		"TOTAL", total.PassengerCount, total.TotalUmum, total.TotalPondok, total.PondokMealTotal,
		total.UmumMealCount, money(total.UmumMealPayment), money(total.TotalFare), money(total.TotalPayment),
		total.FirmaCount, total.MbahmanCount,
	}); err != nil {
		return err
	}
	if err := boldRow(f, SummarySheet, 1, len(summaryHeader), bold); err != nil {
		return err
	}
	if err := boldRow(f, SummarySheet, row, len(summaryHeader), bold); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 22)
}

func writeBusSheet(f *excelize.File, bm models.BusManifest, bold int) error {
	sheet := bm.SheetName
	if err := setRow(f, sheet, 1, busHeader); err != nil {
		return err
	}
	row := 2
	for _, r := range bm.Rows {
		if err := setRow(f, sheet, row, []any{
			r.SeatNumber, r.Name, string(r.Gender), r.Phone, r.Address, r.Destination, r.GroupPondok,
			r.Kitchen, r.MealCount, money(r.MealPayment), money(r.Fare), money(r.TotalPayment),
			utils.FormatDateTime(r.BookedAt),
		}); err != nil {
			return err
		}
		row++
	}
	t := bm.Totals
	if err := setRow(f, sheet, row, []any{
		"TOTAL", "", "", "", "", "", "", "", t.MealCount, money(t.MealPayment), money(t.Fare), money(t.TotalPayment), "",
	}); err != nil {
		return err
	}
	if err := boldRow(f, sheet, 1, len(busHeader), bold); err != nil {
		return err
	}
	if err := boldRow(f, sheet, row, len(busHeader), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "E", "E", 36)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldRow(f *excelize.File, sheet string, row, cols, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

// money writes whole rupiah as a number cell.
func money(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
