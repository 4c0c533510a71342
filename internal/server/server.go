// Package server is the TCP frontend: it accepts connections and hands
// each one to the thread pool as a single job that reads one request,
// applies it to the engine, and writes back one response.
package server

import (
	"net"

	"github.com/google/uuid"
	igengine "github.com/ignitekv/ignite/internal/engine"
	"github.com/ignitekv/ignite/internal/pool"
	"github.com/ignitekv/ignite/internal/proto"
	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	"go.uber.org/zap"
)

// Server binds a listener to an engine, dispatching each accepted
// connection through pool so the concurrency strategy is swappable without
// touching the accept loop.
type Server struct {
	engine igengine.Engine
	pool   pool.Pool
	log    *zap.SugaredLogger
}

// New returns a Server ready to Serve. engine and pool are both required;
// a nil logger is replaced with a no-op logger.
func New(engine igengine.Engine, p pool.Pool, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{engine: engine, pool: p, log: log}
}

// Serve accepts connections from ln until it returns an error (including
// the listener being closed), dispatching each one to the pool.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		connID := uuid.NewString()
		log := s.log.With("connection", connID, "remoteAddr", conn.RemoteAddr().String())

		s.pool.Spawn(func() {
			defer conn.Close()
			s.handle(conn, log)
		})
	}
}

func (s *Server) handle(conn net.Conn, log *zap.SugaredLogger) {
	var req proto.Request
	if err := proto.ReadMessage(conn, &req); err != nil {
		log.Errorw("failed to read request", "error", err)
		return
	}

	log.Infow("handling request", "op", req.Op, "key", req.Key)

	resp := s.apply(req)
	if err := proto.WriteMessage(conn, resp); err != nil {
		log.Errorw("failed to write response", "error", err)
	}
}

func (s *Server) apply(req proto.Request) proto.Response {
	switch req.Op {
	case proto.OpGet:
		val, found, err := s.engine.Get(req.Key)
		if err != nil {
			return proto.Response{Err: err.Error()}
		}
		return proto.Response{OK: true, Found: found, Val: val}

	case proto.OpSet:
		if err := s.engine.Set(req.Key, req.Val); err != nil {
			return proto.Response{Err: err.Error()}
		}
		return proto.Response{OK: true}

	case proto.OpRemove:
		if err := s.engine.Remove(req.Key); err != nil {
			if ignerrors.IsKeyNotFound(err) {
				return proto.Response{OK: false, Err: err.Error()}
			}
			return proto.Response{Err: err.Error()}
		}
		return proto.Response{OK: true}

	default:
		return proto.Response{Err: "unknown operation " + string(req.Op)}
	}
}
