// Package livefeed pushes projection and clock updates to scoreboard
// clients over websockets, one topic per match.
package livefeed

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/sourcegraph/conc"
)

const defaultSendBuffer = 32

// ProjectionReader and ClockReader seed a new subscriber with current state.
type ProjectionReader interface {
	Get(ctx context.Context, matchID string) (matchevent.Projection, error)
}

type ClockReader interface {
	Snapshot(ctx context.Context, matchID string) (match.ClockSnapshot, error)
}

// SubscriberMetrics tracks connected clients.
type SubscriberMetrics interface {
	SubscribersChanged(delta int)
}

type Options struct {
	SendBuffer     int
	AllowedOrigins []string
}

// Hub implements usecase.LiveBroadcaster. Slow clients whose buffer fills are
// disconnected instead of blocking the broadcaster.
type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[*client]struct{}
	closed  bool
	pumps   conc.WaitGroup
	buffer  int
	upgrade websocket.Upgrader

	projections ProjectionReader
	clocks      ClockReader
	metrics     SubscriberMetrics
	logger      *logging.Logger
}

var _ usecase.LiveBroadcaster = (*Hub)(nil)

func NewHub(projections ProjectionReader, clocks ClockReader, opts Options, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	buffer := opts.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	return &Hub{
		topics:      make(map[string]map[*client]struct{}),
		buffer:      buffer,
		projections: projections,
		clocks:      clocks,
		logger:      logger.Named("livefeed"),
		upgrade: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

func (h *Hub) SetMetrics(m SubscriberMetrics) {
	h.metrics = m
}

func (h *Hub) Broadcast(update usecase.LiveUpdate) {
	data, err := sonic.Marshal(update)
	if err != nil {
		h.logger.Warn("marshal live update failed", "match_id", update.MatchID, "kind", update.Kind, "error", err)
		return
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.topics[update.MatchID] {
		if !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("live client too slow, disconnecting", "client_id", c.id, "match_id", c.matchID)
		h.unregister(c)
	}
}

// Subscribers reports the clients connected to matchID.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[matchID])
}

// ServeHTTP upgrades GET /v1/matches/{matchID}/live.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	if _, err := h.initialFrames(ctx, matchID); err != nil {
		writeRejection(w, err)
		return
	}

	conn, err := h.upgrade.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}

	c := newClient(h, conn, matchID, h.buffer)
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	// The snapshot is read after register so no broadcast can fall between
	// it and the subscription.
	initial, err := h.initialFrames(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "live snapshot failed", "client_id", c.id, "match_id", matchID, "error", err)
		h.unregister(c)
		return
	}
	for _, frame := range initial {
		if !c.enqueue(frame) {
			h.logger.Warn("live client too slow, disconnecting", "client_id", c.id, "match_id", matchID)
			h.unregister(c)
			return
		}
	}
	h.logger.DebugContext(ctx, "live client connected", "client_id", c.id, "match_id", matchID)
}

// Close disconnects every client and waits for their pumps to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*client
	for _, clients := range h.topics {
		for c := range clients {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
	h.pumps.Wait()
}

// Run blocks until ctx is done, then closes the hub.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}

func (h *Hub) initialFrames(ctx context.Context, matchID string) ([][]byte, error) {
	projection, err := h.projections.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	snapshot, err := h.clocks.Snapshot(ctx, matchID)
	if err != nil {
		return nil, err
	}

	frames := make([][]byte, 0, 2)
	for _, update := range []usecase.LiveUpdate{
		{MatchID: matchID, Kind: usecase.LiveKindProjection, Projection: &projection},
		{MatchID: matchID, Kind: usecase.LiveKindClock, Clock: &snapshot},
	} {
		data, err := sonic.Marshal(update)
		if err != nil {
			return nil, err
		}
		frames = append(frames, data)
	}
	return frames, nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	clients, ok := h.topics[c.matchID]
	if !ok {
		clients = make(map[*client]struct{})
		h.topics[c.matchID] = clients
	}
	clients[c] = struct{}{}
	// Started under the lock so Close never waits before the pumps exist.
	h.pumps.Go(c.writePump)
	h.pumps.Go(c.readPump)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SubscribersChanged(1)
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	clients, ok := h.topics[c.matchID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.topics, c.matchID)
	}
	h.mu.Unlock()

	c.close()
	if h.metrics != nil {
		h.metrics.SubscribersChanged(-1)
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowAll || origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
