package services

import (
	"context"
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"
)

// Seats per standard row, split 2+2 by the aisle, and the widest back row.
const (
	seatsPerRow   = 4
	backRowMaxLen = 6
)

// SeatService answers seat availability and validates seat choices before
// anything is written.
type SeatService struct {
	Buses      BusStore
	Passengers PassengerStore
	RequestID  string
}

// AvailableSeatsCount is max_passengers minus the passengers on the bus.
func (s SeatService) AvailableSeatsCount(ctx context.Context, busID string) (int, error) {
	bus, err := s.Buses.Get(ctx, busID)
	if err != nil {
		return 0, err
	}
	n, err := s.Passengers.CountByBus(ctx, busID)
	if err != nil {
		return 0, err
	}
	return bus.MaxPassengers - n, nil
}

func (s SeatService) OccupiedSeats(ctx context.Context, busID string) ([]models.OccupiedSeat, error) {
	if _, err := s.Buses.Get(ctx, busID); err != nil {
		return nil, err
	}
	return s.Passengers.OccupiedSeats(ctx, busID)
}

func (s SeatService) IsSeatAvailable(ctx context.Context, busID string, seatNumber int) (bool, error) {
	seats, err := s.OccupiedSeats(ctx, busID)
	if err != nil {
		return false, err
	}
	for _, seat := range seats {
		if seat.SeatNumber == seatNumber {
			return false, nil
		}
	}
	return true, nil
}

// AssignSeat checks that seatNumber may be given to passengerID (empty for a
// new passenger). A passenger's own current seat never counts as taken.
func (s SeatService) AssignSeat(ctx context.Context, busID string, seatNumber int, passengerID string) error {
	bus, err := s.Buses.Get(ctx, busID)
	if err != nil {
		return err
	}
	return s.assignOnBus(ctx, bus, seatNumber, passengerID)
}

func (s SeatService) assignOnBus(ctx context.Context, bus models.Bus, seatNumber int, passengerID string) error {
	if seatNumber < 1 || seatNumber > bus.MaxPassengers {
		return domain.SeatOutOfRangeError{BusID: bus.ID, SeatNumber: seatNumber, Max: bus.MaxPassengers}
	}
	seats, err := s.Passengers.OccupiedSeats(ctx, bus.ID)
	if err != nil {
		return err
	}
	for _, seat := range seats {
		if seat.SeatNumber == seatNumber && seat.PassengerID != passengerID {
			utils.LogEvent(s.RequestID, "seat", "assign_rejected", fmt.Sprintf("bus_id=%s seat=%d", bus.ID, seatNumber))
			return domain.SeatTakenError{BusID: bus.ID, SeatNumber: seatNumber}
		}
	}
	return nil
}

// SeatMap lays the bus out for the seat picker.
func (s SeatService) SeatMap(ctx context.Context, busID string) (models.SeatMap, error) {
	bus, err := s.Buses.Get(ctx, busID)
	if err != nil {
		return models.SeatMap{}, err
	}
	seats, err := s.Passengers.OccupiedSeats(ctx, busID)
	if err != nil {
		return models.SeatMap{}, err
	}
	n, err := s.Passengers.CountByBus(ctx, busID)
	if err != nil {
		return models.SeatMap{}, err
	}

	bySeat := make(map[int]models.OccupiedSeat, len(seats))
	for _, seat := range seats {
		bySeat[seat.SeatNumber] = seat
	}

	rows := SeatLayout(bus.MaxPassengers)
	for _, row := range rows {
		for i := range row {
			if occ, ok := bySeat[row[i].Number]; ok && !row[i].Aisle {
				row[i].Occupied = true
				row[i].Gender = occ.Gender
				row[i].PassengerID = occ.PassengerID
			}
		}
	}
	return models.SeatMap{
		BusID:         bus.ID,
		MaxPassengers: bus.MaxPassengers,
		Occupied:      n,
		Available:     bus.MaxPassengers - n,
		Rows:          rows,
	}, nil
}

// SeatLayout numbers seats 1..capacity in rows of two, aisle, two. The
// remainder (at most six) forms the back bench without an aisle.
func SeatLayout(capacity int) [][]models.SeatCell {
	var rows [][]models.SeatCell
	next := 1
	for capacity-next+1 > backRowMaxLen {
		row := make([]models.SeatCell, 0, seatsPerRow+1)
		for i := 0; i < seatsPerRow; i++ {
			if i == seatsPerRow/2 {
				row = append(row, models.SeatCell{Aisle: true})
			}
			row = append(row, models.SeatCell{Number: next})
			next++
		}
		rows = append(rows, row)
	}
	if next <= capacity {
		row := make([]models.SeatCell, 0, capacity-next+1)
		for ; next <= capacity; next++ {
			row = append(row, models.SeatCell{Number: next})
		}
		rows = append(rows, row)
	}
	return rows
}
