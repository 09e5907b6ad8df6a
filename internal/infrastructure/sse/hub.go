package sse

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Event es un evento Server-Sent listo para escribir en el stream.
type Event struct {
	Name string
	Data string
}

// Client es una conexión SSE suscrita al hub. Events tiene buffer: si el
// cliente no drena a tiempo, el broadcast lo salta en vez de bloquearse.
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub mantiene el conjunto de clientes SSE conectados y reparte eventos.
// Es el mecanismo de notificación en tiempo real del almacén: suministros
// y solicitudes completadas empujan aquí tras el commit, best-effort.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     zerolog.Logger
}

// NewHub construye un hub vacío.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log.With().Str("component", "sse").Logger(),
	}
}

// Register añade un cliente al hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.log.Debug().Str("client_id", client.ID).Int("total", len(h.clients)).Msg("cliente SSE registrado")
}

// Unregister retira un cliente y cierra su canal.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.log.Debug().Str("client_id", clientID).Int("total", len(h.clients)).Msg("cliente SSE desconectado")
	}
}

// Broadcast reparte el evento a todos los clientes conectados sin bloquear:
// un cliente con buffer lleno pierde el evento (el frontend resincroniza
// por polling al reconectar).
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.log.Warn().Str("client_id", client.ID).Str("event", event.Name).Msg("buffer SSE lleno, evento descartado")
		}
	}
}

// Publish implementa el puerto Notifier de los casos de uso: serializa el
// payload y lo difunde. Los errores de serialización solo se loguean; la
// notificación nunca afecta a la transacción ya confirmada.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("payload SSE no serializable")
		return
	}
	h.Broadcast(Event{Name: event, Data: string(data)})
}
