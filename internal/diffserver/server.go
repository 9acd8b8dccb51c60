// Package diffserver exposes xdiff's diff and merge engines over
// HTTP and WebSocket, watching a fixed set of files on disk and
// pushing recomputed results to connected clients whenever one of
// them changes.
package diffserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rybkr/xdiff/internal/xdiff"
)

const defaultCacheSize = 64

// Config configures a Server.
type Config struct {
	Addr        string
	Mode        Mode
	Target      Target
	Flags       xdiff.Flags
	Anchors     xdiff.Anchors
	MergeConfig xdiff.MergeConfig
	CacheSize   int
	Logger      *slog.Logger
}

// Server serves diff/merge results for a single watched Target.
type Server struct {
	addr        string
	mode        Mode
	target      Target
	flags       xdiff.Flags
	anchors     xdiff.Anchors
	mergeConfig xdiff.MergeConfig

	rateLimiter *rateLimiter
	diffCache   *LRUCache[UpdateMessage]
	mergeCache  *LRUCache[UpdateMessage]

	lastMu sync.Mutex
	last   *UpdateMessage

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]*wsClient
	clientWg  sync.WaitGroup

	httpServer *http.Server
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Server ready to Start.
func New(cfg Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:        cfg.Addr,
		mode:        cfg.Mode,
		target:      cfg.Target,
		flags:       cfg.Flags,
		anchors:     cfg.Anchors,
		mergeConfig: cfg.MergeConfig,
		rateLimiter: newRateLimiter(100, 200, time.Second),
		diffCache:   NewLRUCache[UpdateMessage](cacheSize),
		mergeCache:  NewLRUCache[UpdateMessage](cacheSize),
		clients:     make(map[*websocket.Conn]*wsClient),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins serving and blocks until the server exits or
// encounters a fatal error.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)

	const apiWriteDeadline = 30 * time.Second
	mux.HandleFunc("/api/diff", writeDeadline(apiWriteDeadline, s.rateLimiter.middleware(s.handleDiff)))
	mux.HandleFunc("/api/merge", writeDeadline(apiWriteDeadline, s.rateLimiter.middleware(s.handleMerge)))
	mux.HandleFunc("/api/ws", s.handleWebSocket)

	handler := corsMiddleware(requestLogger(s.logger, mux))

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.startWatcher(); err != nil {
			s.logger.Error("watcher error", "err", err)
		}
	}()

	s.logger.Info("xdiff server starting", "addr", "http://"+s.addr, "mode", s.modeString())
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP listener, the watcher, and every
// connected WebSocket client.
func (s *Server) Shutdown() {
	start := time.Now()
	s.logger.Info("Server shutting down")

	if s.httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "err", err)
		}
	}

	s.cancel()
	s.rateLimiter.Close()
	s.wg.Wait()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clientsMu.Unlock()
	s.clientWg.Wait()

	s.logger.Info("Server shutdown complete", "elapsed", time.Since(start).Round(time.Millisecond))
}
