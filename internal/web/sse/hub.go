package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/pointsrummy/internal/model"
)

// Hub fans out one user's round events to every stream that user has open.
// A hub exists only while it has at least one client.
type Hub struct {
	userID model.UserID
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
}

func newHub(userID model.UserID, logger *slog.Logger) *Hub {
	return &Hub{
		userID:  userID,
		logger:  logger.With(slog.String("user_id", string(userID))),
		clients: make(map[*Client]struct{}),
	}
}

// Broadcast queues a message for every client. A client whose buffer is
// full misses the message rather than stalling the sender.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse message dropped, client buffer full",
			slog.Int("dropped", dropped),
			slog.Int("total_clients", len(h.clients)))
	}
}

// BroadcastEvent sends a named SSE event to every client
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.Broadcast(formatSSEMessage(eventName, data))
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(client *Client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return len(h.clients)
}

// remove drops a client and reports how many remain
func (h *Hub) remove(client *Client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	return len(h.clients)
}

// closeAll ends every stream on the hub
func (h *Hub) closeAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.clients)
	for client := range h.clients {
		client.close()
		delete(h.clients, client)
	}
	return n
}

// formatSSEMessage renders one SSE frame, prefixing every data line
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteByte('\n')
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and any trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager tracks the hub of every user with an open stream
type HubManager struct {
	mu     sync.RWMutex
	hubs   map[model.UserID]*Hub
	closed bool
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.UserID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// Connect opens a stream for a user, creating the user's hub on first use.
// After Close the returned client is already finished.
func (m *HubManager) Connect(userID model.UserID, remote string) *Client {
	client := newClient(userID, remote)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		client.close()
		return client
	}

	hub, ok := m.hubs[userID]
	if !ok {
		hub = newHub(userID, m.logger)
		m.hubs[userID] = hub
	}
	count := hub.add(client)
	hub.logger.Info("sse client connected",
		slog.String("remote", remote),
		slog.Int("total_clients", count))
	return client
}

// Disconnect removes a client and drops its hub once no clients remain
func (m *HubManager) Disconnect(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.hubs[client.userID]
	if !ok {
		return
	}
	remaining := hub.remove(client)
	hub.logger.Info("sse client disconnected",
		slog.String("remote", client.remote),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", remaining))
	if remaining == 0 {
		delete(m.hubs, client.userID)
	}
}

// GetHub returns the hub for a user, or nil if the user has no open stream
func (m *HubManager) GetHub(userID model.UserID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[userID]
}

// HubCount returns how many users currently have an open stream
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}

// Close ends every open stream and refuses new ones
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	streams := 0
	for id, hub := range m.hubs {
		streams += hub.closeAll()
		delete(m.hubs, id)
	}
	m.logger.Info("sse streams closed", slog.Int("disconnected_clients", streams))
}
