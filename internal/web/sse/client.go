package sse

import (
	"net/http"
	"sync"
	"time"

	"github.com/mcoot/pointsrummy/internal/model"
)

const (
	// Time between keepalive comments
	pingPeriod = 15 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one open event stream
type Client struct {
	userID      model.UserID
	remote      string
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
}

func newClient(userID model.UserID, remote string) *Client {
	return &Client{
		userID:      userID,
		remote:      remote,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ServeSSE streams the round events of one user until the request ends
// or the manager is closed.
func ServeSSE(w http.ResponseWriter, r *http.Request, manager *HubManager, userID model.UserID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := manager.Connect(userID, r.RemoteAddr)
	defer manager.Disconnect(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-client.send:
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-client.done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
