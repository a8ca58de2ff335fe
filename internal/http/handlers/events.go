package handlers

import (
	"io"
	"net/http"
	"time"

	"busbooking/internal/events"
	"busbooking/internal/http/middleware"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	eventBuffer       = 32
	eventPingInterval = 25 * time.Second
)

// GET /api/events?table=passengers
// Streams change notifications as server-sent events. Without table the
// stream carries every table. Slow clients drop notifications; each one
// only means "re-fetch".
func (a *API) StreamEvents(c *gin.Context) {
	if a.Hub == nil {
		respondError(c, http.StatusServiceUnavailable, "events_disabled", "notifikasi tidak aktif", nil)
		return
	}
	table := c.Query("table")
	reqID := middleware.GetRequestID(c)

	changes := make(chan events.Change, eventBuffer)
	unsubscribe := a.Hub.Subscribe(table, func(ch events.Change) {
		select {
		case changes <- ch:
		default:
			utils.LogEvent(reqID, "events", "drop", "table="+ch.Table)
		}
	})
	defer unsubscribe()

	// the server write timeout would otherwise cut the stream
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	ping := time.NewTicker(eventPingInterval)
	defer ping.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"table": utils.Fallback(table, events.AllTables)})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ch := <-changes:
			c.SSEvent("change", ch)
			return true
		case t := <-ping.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		}
	})
}
