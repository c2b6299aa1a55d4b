package orderControllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kartlane/ecommerce-api/models"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans out order events to connected admin dashboards.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// GET /api/orders/ws (admin)
func (h *Hub) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		// Drain the connection until the client goes away.
		go func() {
			defer h.remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

type orderEvent struct {
	Event string        `json:"event"`
	Order *models.Order `json:"order"`
}

// BroadcastOrderEvent pushes an order event to every connected client.
// Dead connections are dropped on write failure.
func (h *Hub) BroadcastOrderEvent(event string, order *models.Order) {
	if h == nil {
		return
	}

	payload := orderEvent{Event: event, Order: order}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(payload); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
