package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busbooking/internal/config"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, a *h.API) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSOrigins),
		middleware.Auth(a.AuthService("").ParseToken),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// write guards every mutating route; it only bites with AUTH_REQUIRED=true
	write := middleware.RequireOperator(env.AuthRequired)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", a.DBCheck)
		api.GET("/routes", h.Routes)
		api.GET("/events", a.StreamEvents)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", a.Login)
		auth.GET("/me", h.Me)

		// Periods
		periods := api.Group("/periods")
		periods.GET("", a.ListPeriods)
		periods.POST("", write, a.CreatePeriod)
		periods.GET("/active", a.GetActivePeriod)
		periods.GET("/:id", a.GetPeriod)
		periods.PUT("/:id", write, a.UpdatePeriod)
		periods.DELETE("/:id", write, a.DeletePeriod)
		periods.PUT("/:id/activate", write, a.ActivatePeriod)
		periods.PUT("/:id/lock", write, a.LockPeriod)
		periods.PUT("/:id/archive", write, a.ArchivePeriod)

		period := periods.Group("/:id")
		mountBuses(period.Group("/buses"), a, write)
		mountPassengers(period.Group("/passengers"), a, write)
		period.GET("/manifest", a.ExportManifest)
		period.GET("/manifest/summary", a.GetManifestSummary)
	}

	h.SetRouter(r)
	return r
}

func mountBuses(g *gin.RouterGroup, a *h.API, write gin.HandlerFunc) {
	g.GET("", a.ListBuses)
	g.POST("", write, a.CreateBus)
	g.GET("/:busId", a.GetBus)
	g.PUT("/:busId", write, a.UpdateBus)
	g.GET("/:busId/seats", a.GetSeatMap)
	g.POST("/:busId/seats/check", a.CheckSeat)
}

func mountPassengers(g *gin.RouterGroup, a *h.API, write gin.HandlerFunc) {
	g.GET("", a.ListPassengers)
	g.POST("", write, a.CreatePassenger)
	g.GET("/:passengerId", a.GetPassenger)
	g.PUT("/:passengerId", write, a.UpdatePassenger)
	g.DELETE("/:passengerId", write, a.DeletePassenger)
	g.GET("/:passengerId/ticket", a.GetPassengerTicket)
}
