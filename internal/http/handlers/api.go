package handlers

import (
	"context"
	"time"

	"busbooking/internal/events"
	"busbooking/internal/http/middleware"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// API holds the stores and shared pieces the handlers build services from.
// Services are cheap values; one is made per request to carry its request id.
type API struct {
	Periods    services.PeriodStore
	Buses      services.BusStore
	Passengers services.PassengerStore
	Operators  services.OperatorStore
	Hub        *events.Hub

	JWTSecret []byte
	TokenTTL  time.Duration

	// Ping checks the backing database. Nil means no database is used.
	Ping func(ctx context.Context) error
}

func (a *API) notifier() services.Notifier {
	if a.Hub == nil {
		return nil
	}
	return a.Hub
}

func (a *API) periodService(c *gin.Context) services.PeriodService {
	return services.PeriodService{
		Periods:   a.Periods,
		Notifier:  a.notifier(),
		RequestID: middleware.GetRequestID(c),
	}
}

func (a *API) busService(c *gin.Context) services.BusService {
	return services.BusService{
		Periods:    a.Periods,
		Buses:      a.Buses,
		Passengers: a.Passengers,
		Notifier:   a.notifier(),
		RequestID:  middleware.GetRequestID(c),
	}
}

func (a *API) seatService(c *gin.Context) services.SeatService {
	return services.SeatService{
		Buses:      a.Buses,
		Passengers: a.Passengers,
		RequestID:  middleware.GetRequestID(c),
	}
}

func (a *API) passengerService(c *gin.Context) services.PassengerService {
	return services.PassengerService{
		Periods:    a.Periods,
		Buses:      a.Buses,
		Passengers: a.Passengers,
		Notifier:   a.notifier(),
		RequestID:  middleware.GetRequestID(c),
		Operator:   middleware.GetOperator(c),
	}
}

func (a *API) manifestService(c *gin.Context) services.ManifestService {
	return services.ManifestService{
		Periods:    a.Periods,
		Buses:      a.Buses,
		Passengers: a.Passengers,
		RequestID:  middleware.GetRequestID(c),
	}
}

func (a *API) docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Buses:      a.Buses,
		Passengers: a.Passengers,
		RequestID:  middleware.GetRequestID(c),
	}
}

// AuthService is also used by the router to verify bearer tokens.
func (a *API) AuthService(requestID string) services.AuthService {
	return services.AuthService{
		Operators: a.Operators,
		Secret:    a.JWTSecret,
		TTL:       a.TokenTTL,
		RequestID: requestID,
	}
}
