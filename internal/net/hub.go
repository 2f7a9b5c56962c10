package net

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	viewerBuffer = 4
)

type viewer struct {
	conn *websocket.Conn
	send chan *Frame
	addr string
}

// Hub is used by the HOST to fan frames out to every connected viewer. New
// viewers get the latest frame right away. A viewer that falls behind loses
// its oldest queued frames, never the newest.
type Hub struct {
	session  string
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	latest  *Frame
}

func NewHub(session string) *Hub {
	return &Hub{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// viewers on the LAN open the mirror from anywhere
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		viewers: make(map[*viewer]struct{}),
	}
}

// Handler serves the mirror endpoint.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MirrorPath, h)
	return mux
}

// Publish stores f as the latest frame and queues it for every viewer.
func (h *Hub) Publish(f Frame) {
	f.Type = frameType
	f.Session = h.session
	if f.Time.IsZero() {
		f.Time = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &f
	for v := range h.viewers {
		enqueue(v, &f)
	}
}

func enqueue(v *viewer, f *Frame) {
	select {
	case v.send <- f:
		return
	default:
	}
	// queue full: drop the oldest frame to make room
	select {
	case <-v.send:
		log.Printf("[MIRROR] Dropped a frame for slow viewer %s", v.addr)
	default:
	}
	select {
	case v.send <- f:
	default:
	}
}

// Latest returns the most recent published frame.
func (h *Hub) Latest() (Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return Frame{}, false
	}
	return *h.latest, true
}

// Count reports the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[MIRROR] Upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	v := &viewer{conn: conn, send: make(chan *Frame, viewerBuffer), addr: r.RemoteAddr}

	h.mu.Lock()
	h.viewers[v] = struct{}{}
	if h.latest != nil {
		v.send <- h.latest
	}
	h.mu.Unlock()
	log.Printf("[MIRROR] Viewer connected from %s", v.addr)

	go h.writeLoop(v)
	h.readLoop(v)
}

// readLoop only watches for the viewer going away; viewers never send data.
func (h *Hub) readLoop(v *viewer) {
	defer h.remove(v)
	v.conn.SetReadLimit(512)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[MIRROR] Viewer %s disconnected: %v", v.addr, err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(v *viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()
	for {
		select {
		case f, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteJSON(f); err != nil {
				log.Printf("[MIRROR] Error sending to %s: %v", v.addr, err)
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; !ok {
		return
	}
	delete(h.viewers, v)
	close(v.send)
	log.Printf("[MIRROR] Removed viewer %s", v.addr)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers {
		delete(h.viewers, v)
		close(v.send)
	}
}

// Serve runs the mirror HTTP server on ln until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("[MIRROR] Listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
