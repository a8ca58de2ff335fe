package services

import (
	"bytes"
	"context"
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// DocsService renders the printable seat ticket of a passenger.
type DocsService struct {
	Buses      BusStore
	Passengers PassengerStore
	RequestID  string
	Loader     func(ctx context.Context, periodID, passengerID string) (ticketData, error)
}

type ticketData struct {
	PassengerID  string
	Name         string
	Group        string
	Destination  string
	BusLabel     string
	SeatNumber   int
	TotalPayment decimal.Decimal
	Petugas      string
}

// RenderTicket returns the PDF bytes and the download filename.
func (s DocsService) RenderTicket(ctx context.Context, periodID, passengerID string) ([]byte, string, error) {
	data, err := s.loadTicketData(ctx, periodID, passengerID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "render_ticket", fmt.Sprintf("passenger_id=%s seat=%d", passengerID, data.SeatNumber))
	return buildTicketPDF(data)
}

func (s DocsService) loadTicketData(ctx context.Context, periodID, passengerID string) (ticketData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, periodID, passengerID)
	}
	p, err := s.Passengers.Get(ctx, passengerID)
	if err != nil {
		return ticketData{}, err
	}
	if p.PeriodID != periodID {
		return ticketData{}, domain.NotFoundError{Resource: "passenger", ID: passengerID}
	}
	if !p.HasSeat() {
		return ticketData{}, domain.ValidationError{Field: "bus_seat_number", Msg: "penumpang belum mendapat kursi"}
	}
	bus, err := s.Buses.Get(ctx, p.BusID)
	if err != nil {
		return ticketData{}, err
	}
	return ticketFromPassenger(p, bus), nil
}

func ticketFromPassenger(p models.Passenger, bus models.Bus) ticketData {
	return ticketData{
		PassengerID:  p.ID,
		Name:         p.Name,
		Group:        p.GroupLabel(),
		Destination:  utils.Fallback(p.Destination, bus.Destination),
		BusLabel:     bus.Label(),
		SeatNumber:   p.BusSeatNumber,
		TotalPayment: p.TotalPayment,
		Petugas:      p.Petugas,
	}
}

// TicketFilename is TIKET_<name>_<seat>.pdf.
func TicketFilename(name string, seat int) string {
	return fmt.Sprintf("TIKET_%s_%d.pdf", utils.SafeFilenamePart(name), seat)
}

func buildTicketPDF(d ticketData) ([]byte, string, error) {
	qr, err := qrcode.Encode(d.PassengerID, qrcode.Medium, 256)
	if err != nil {
		return nil, "", fmt.Errorf("qr tiket: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A6", "")
	pdf.SetTitle("Tiket Bus", false)
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Bus "+d.BusLabel, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 40)
	pdf.CellFormat(90, 20, fmt.Sprintf("No. %d", d.SeatNumber), "", 0, "L", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 108, 18, 30, 30, false, opts, 0, "")
	pdf.Ln(24)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Nama       : %s", utils.Fallback(d.Name, "-")),
		fmt.Sprintf("Klp        : %s", utils.Fallback(d.Group, "-")),
		fmt.Sprintf("Tujuan     : %s", utils.Fallback(d.Destination, "-")),
		fmt.Sprintf("Pembayaran : %s", utils.FormatRupiah(d.TotalPayment)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, fmt.Sprintf("Petugas: %s. Tiket berlaku untuk 1 penumpang (1 kursi), tunjukkan saat naik bus.", utils.Fallback(d.Petugas, "-")), "", "", false)

	if err := pdf.Error(); err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), TicketFilename(d.Name, d.SeatNumber), nil
}
