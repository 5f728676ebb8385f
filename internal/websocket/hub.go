package websocket

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans entity-update notices out to websocket clients watching a
// project. One redis pub/sub subscription exists per project with at least
// one open connection.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*websocket.Conn
	redisClient *redis.Client
	cancelFuncs map[uuid.UUID]context.CancelFunc
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*websocket.Conn),
		redisClient: redisClient,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.URL.Query().Get("project_id"))
	if err != nil {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(projectID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(projectID, conn)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(projectID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[projectID] = append(h.connections[projectID], conn)

	// First connection for this project starts its pub/sub subscription
	if len(h.connections[projectID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[projectID] = cancel
		go h.subscribeToPubSub(ctx, projectID)
	}

	log.Printf("WebSocket connected: project %s (total: %d)", projectID, len(h.connections[projectID]))
}

func (h *Hub) unregisterConnection(projectID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[projectID]
	for i, c := range conns {
		if c == conn {
			h.connections[projectID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections[projectID]) == 0 {
		delete(h.connections, projectID)
		if cancel, ok := h.cancelFuncs[projectID]; ok {
			cancel()
			delete(h.cancelFuncs, projectID)
		}
	}

	log.Printf("WebSocket disconnected: project %s", projectID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, projectID uuid.UUID) {
	channel := "project_updates:" + projectID.String()
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(projectID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(projectID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[projectID] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
