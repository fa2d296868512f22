package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStream serves /game/events until ctx ends and returns the recorder
// once the handler has returned
func (ts *webTestServer) openStream(ctx context.Context) (*httptest.ResponseRecorder, <-chan struct{}) {
	req := httptest.NewRequest(http.MethodGet, "/game/events", nil)
	ts.cookies.addTo(req)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		ts.handler.ServeHTTP(rr, req)
	}()
	return rr, done
}

func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rr, done := ts.openStream(ctx)
	<-done

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
	assert.Contains(t, rr.Body.String(), "event: connected")
	assert.Contains(t, rr.Body.String(), `data: {"status":"connected"}`)
}

func TestSSE_RequiresAuthentication(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/game/events")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/?next=")
}

func TestSSE_StreamsRoundEvents(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer()
	player := ts.currentUser("player@demo.com")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	rr, done := ts.openStream(ctx)

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(player.ID)
		return hub != nil && hub.ClientCount() == 1
	}, 200*time.Millisecond, 5*time.Millisecond)

	_, err := ts.app.RoundController.Start(t.Context(), player.ID)
	require.NoError(t, err)
	_, err = ts.app.RoundController.EndTurn(t.Context(), player.ID)
	require.NoError(t, err)

	<-done
	assert.Nil(t, ts.app.HubManager.GetHub(player.ID), "hub should be dropped once the stream ends")

	body := rr.Body.String()
	assert.Contains(t, body, "event: round_started")
	assert.Contains(t, body, "event: turn_changed")
	assert.Contains(t, body, `"turn":"opponent"`)
}

func TestSSE_OtherUsersEventsNotDelivered(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer()
	player := ts.currentUser("player@demo.com")
	admin := ts.currentUser("admin@demo.com")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	rr, done := ts.openStream(ctx)

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(player.ID)
		return hub != nil && hub.ClientCount() == 1
	}, 150*time.Millisecond, 5*time.Millisecond)

	_, err := ts.app.RoundController.Start(t.Context(), admin.ID)
	require.NoError(t, err)

	<-done

	assert.NotContains(t, rr.Body.String(), "round_started")
}
