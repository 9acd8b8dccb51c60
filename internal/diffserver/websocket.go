package diffserver

import (
	"compress/flate"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// upgrader allows all origins. The default listen address (":8080")
// binds every interface, so the server is reachable beyond localhost
// unless --addr or XDIFF_ADDR names a narrower address.
var upgrader = websocket.Upgrader{
	CheckOrigin:       func(_ *http.Request) bool { return true },
	EnableCompression: true,
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !s.rateLimiter.allow(ip) {
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "err", err)
		return
	}

	conn.EnableWriteCompression(true)
	if err := conn.SetCompressionLevel(flate.BestSpeed); err != nil {
		s.logger.Error("Failed to set compression level", "err", err)
	}
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("Failed to set read deadline", "addr", conn.RemoteAddr(), "err", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.logger.Info("WebSocket client connected", "addr", conn.RemoteAddr())

	writeMu := s.registerClient(conn)
	s.sendCurrent(conn, writeMu)

	done := make(chan struct{})
	s.clientWg.Add(2)
	go s.clientReadPump(conn, done)
	go s.clientWritePump(conn, done, writeMu)
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu *sync.Mutex
}

func (s *Server) registerClient(conn *websocket.Conn) *sync.Mutex {
	writeMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = &wsClient{conn: conn, writeMu: writeMu}
	s.clientsMu.Unlock()
	return writeMu
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	_ = conn.Close()
}

func (s *Server) sendCurrent(conn *websocket.Conn, writeMu *sync.Mutex) {
	msg := s.lastMessage()
	if msg == nil {
		return
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(msg)
}

func (s *Server) broadcast(msg UpdateMessage) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for _, c := range s.clients {
		c.writeMu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteJSON(msg)
		c.writeMu.Unlock()
	}
}

func (s *Server) clientReadPump(conn *websocket.Conn, done chan struct{}) {
	defer s.clientWg.Done()
	defer close(done)
	defer s.removeClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) clientWritePump(conn *websocket.Conn, done chan struct{}, writeMu *sync.Mutex) {
	defer s.clientWg.Done()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-s.ctx.Done():
			writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			writeMu.Unlock()
			return
		case <-ticker.C:
			writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
