// Package observer streams post-tick snapshots to WebSocket viewers.
// The stream is read-only; viewers never mutate simulation state, and a
// slow viewer is dropped rather than allowed to block the tick.
package observer

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elektrokombinacija/logibots/internal/sim"
)

// Server fans snapshots out to subscribed viewers.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.Mutex
	viewers map[uint64]chan []byte
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		viewers: make(map[uint64]chan []byte),
	}
}

// SimulationUpdated implements service.Observer: encode once, fan out,
// drop snapshots for viewers whose buffers are full.
func (s *Server) SimulationUpdated(snap sim.Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		if s.log != nil {
			s.log.Printf("observer: encode snapshot: %v", err)
		}
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, out := range s.viewers {
		select {
		case out <- b:
		default:
			// Viewer is behind; it catches up on the next snapshot.
		}
	}
}

// WSHandler upgrades a viewer connection and streams snapshots until the
// client disconnects. Only loopback clients are accepted.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id := s.nextID.Add(1)
		out := make(chan []byte, 8)
		s.mu.Lock()
		s.viewers[id] = out
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.viewers, id)
			s.mu.Unlock()
		}()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				// Viewers send nothing meaningful; reads only detect close.
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
