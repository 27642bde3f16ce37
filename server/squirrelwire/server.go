package squirrelwire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/tuannm99/squirrel/internal/sql/parser"
)

type ServerConfig struct {
	Addr string
	// MaxBytes rejects longer query texts before parsing.
	MaxBytes int
	// CacheSize is the number of parse results kept; 0 disables caching.
	CacheSize int
}

// Server parses query text for remote clients. Every request gets its own
// parser; only immutable results are shared through the cache.
type Server struct {
	cfg   ServerConfig
	cache *lru.Cache
	wg    sync.WaitGroup
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.MaxBytes <= 0 {
		return nil, fmt.Errorf("squirrelwire: MaxBytes must be positive, got %d", cfg.MaxBytes)
	}
	s := &Server{cfg: cfg}
	if cfg.CacheSize > 0 {
		c, err := lru.New(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("squirrelwire: cache: %w", err)
		}
		s.cache = c
	}
	return s, nil
}

// Run listens on cfg.Addr and serves until ctx is done.
func Run(ctx context.Context, cfg ServerConfig) error {
	s, err := NewServer(cfg)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then waits for open
// connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer func() { _ = ln.Close() }()
	slog.Info("squirrel parse server listening", "addr", ln.Addr().String(), "cache", s.cfg.CacheSize)

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return err
			}
			slog.Warn("accept", "err", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn answers requests on conn until the peer hangs up, a frame is
// malformed, or ctx is done.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	session := uuid.NewString()
	log := slog.With("session", session, "remote", conn.RemoteAddr().String())
	log.Debug("connection opened")

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		_ = conn.Close()
		log.Debug("connection closed")
	}()

	for {
		var req ParseRequest
		if err := ReadFrame(conn, &req); err != nil {
			if !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				log.Debug("read frame", "err", err)
			}
			return
		}

		resp := s.Handle(req)
		resp.Session = session
		if err := WriteFrame(conn, resp); err != nil {
			log.Warn("write frame", "id", req.ID, "err", err)
			return
		}
	}
}

// Handle parses one request.
func (s *Server) Handle(req ParseRequest) ParseResponse {
	resp := ParseResponse{ID: req.ID}
	if len(req.SQL) > s.cfg.MaxBytes {
		resp.Error = &ParseError{
			Kind:    ErrKindRequest,
			Message: fmt.Sprintf("query too large: %d > %d bytes", len(req.SQL), s.cfg.MaxBytes),
			Pos:     -1,
		}
		return resp
	}

	if s.cache != nil {
		if v, ok := s.cache.Get(req.SQL); ok {
			resp.Statements = v.([]Statement)
			return resp
		}
	}

	stmts, err := parser.Parse(req.SQL)
	if err != nil {
		slog.Debug("parse failed", "id", req.ID, "err", err)
		resp.Error = toParseError(err)
		return resp
	}
	resp.Statements = statementsOf(stmts)
	if s.cache != nil {
		s.cache.Add(req.SQL, resp.Statements)
	}
	return resp
}
