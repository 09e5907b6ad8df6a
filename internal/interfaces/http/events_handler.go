package http

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/tu-usuario/partes-api/internal/infrastructure/sse"
)

// EventsHandler expone el stream SSE de eventos del almacén.
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler construye el handler.
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream godoc
// @Summary      Stream SSE de eventos del almacén
// @Description  Emite request_item_created y request_item_supplied. El token
// @Description  puede ir por query string (?token=) porque EventSource no
// @Description  admite cabeceras.
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/v1/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	userID := GetUserID(c)
	clientID := fmt.Sprintf("%s_%d", userID, time.Now().UnixNano())

	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Events: make(chan sse.Event, 64),
	}
	h.hub.Register(client)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unregister(clientID)

		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, event.Data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
