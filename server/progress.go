package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Progress is a frame streamed to progress subscribers.
type Progress struct {
	JobID    string `json:"jobId"`
	Progress int    `json:"progress"`
}

// Hub fans export progress out to websocket subscribers. The last value of
// every job is kept so late subscribers start from it.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Progress]struct{}
	last map[string]int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan Progress]struct{}),
		last: make(map[string]int),
	}
}

// Publish records progress for jobID and delivers it to every subscriber.
// Slow subscribers drop intermediate frames, never the final one.
func (h *Hub) Publish(jobID string, percent int) {
	if jobID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[jobID] = percent
	p := Progress{JobID: jobID, Progress: percent}
	for ch := range h.subs[jobID] {
		select {
		case ch <- p:
		default:
			if percent >= 100 {
				// Make room for the final frame.
				select {
				case <-ch:
				default:
				}
				ch <- p
			}
		}
	}
}

// Finish forgets jobID once every subscriber has had the final frame.
func (h *Hub) Finish(jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.subs[jobID]) == 0 {
		delete(h.last, jobID)
	}
}

// Subscribe returns a channel of progress frames for jobID and a function
// that cancels the subscription.
func (h *Hub) Subscribe(jobID string) (<-chan Progress, func()) {
	ch := make(chan Progress, 16)
	h.mu.Lock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = make(map[chan Progress]struct{})
	}
	h.subs[jobID][ch] = struct{}{}
	if v, ok := h.last[jobID]; ok {
		ch <- Progress{JobID: jobID, Progress: v}
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[jobID], ch)
			if len(h.subs[jobID]) == 0 {
				delete(h.subs, jobID)
			}
			h.mu.Unlock()
		})
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// handleProgress streams {jobId, progress} frames until the job reaches 100
// or the client goes away.
// GET /api/progress/{jobId}
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("[SERVER] WebSocket upgrade failed for job %s: %v", jobID, err)
		return
	}
	defer conn.Close()

	frames, cancel := s.hub.Subscribe(jobID)
	defer cancel()

	// The read side only watches for close and pong frames.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case p := <-frames:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(p); err != nil {
				return
			}
			if p.Progress >= 100 {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"), time.Now().Add(writeWait))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
