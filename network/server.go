package network

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xtaci/kcp-go"

	"elevatorsim/elevator"
	"elevatorsim/fsm"
)

type Server struct {
	engine   Engine
	log      zerolog.Logger
	listener *kcp.Listener

	mu     sync.Mutex
	conns  map[*conn]struct{}
	closed bool
}

// Listen binds a KCP listener on addr. Use ":0" for an ephemeral port.
func Listen(addr string, eng Engine, log *zerolog.Logger) (*Server, error) {
	ls, err := kcp.ListenWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "kcp listen on %s", addr)
	}
	return &Server{
		engine:   eng,
		log:      log.With().Str("component", "network").Logger(),
		listener: ls,
		conns:    make(map[*conn]struct{}),
	}, nil
}

func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts sessions until ctx is done or the server is closed.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	s.log.Info().Str("addr", s.Addr().String()).Msg("Listening for KCP sessions")
	for {
		sess, err := s.listener.AcceptKCP()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		c := newConn(sess)
		s.mu.Lock()
		s.conns[c] = struct{}{}
		s.mu.Unlock()
		go s.handleConnection(c)
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops accepting and drops every open session.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
	return s.listener.Close()
}

func (s *Server) handleConnection(c *conn) {
	log := s.log.With().Str("remote", c.remote().String()).Logger()
	log.Info().Msg("Accepted session")

	var unsubscribe func()
	defer func() {
		if unsubscribe != nil {
			unsubscribe()
		}
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		c.close()
		log.Info().Msg("Session closed")
	}()

	for {
		env, err := c.receive()
		if err != nil {
			if err != io.EOF && !s.isClosed() {
				log.Debug().Err(err).Msg("Read failed")
			}
			return
		}

		switch env.Type {
		case TypeSubmitRequest:
			var req SubmitRequest
			if decodeErr := decodeContent(env, &req); decodeErr != nil {
				err = c.send(TypeError, ErrorMessage{Message: decodeErr.Error()})
			} else {
				err = c.send(TypeACK, s.submit(req))
			}

		case TypeListElevators:
			err = c.send(TypeElevators, s.engine.ListElevators())

		case TypeListFloors:
			err = c.send(TypeFloors, s.engine.ListFloors())

		case TypeSubscribe:
			if unsubscribe == nil {
				unsubscribe = s.engine.Subscribe(func(report fsm.Report, elevators []elevator.Elevator) {
					msg := TickMessage{Tick: report.Tick, Events: report.Events, Elevators: elevators}
					if err := c.send(TypeTick, msg); err != nil {
						log.Warn().Err(err).Msg("Dropping subscriber")
						c.close()
					}
				})
			}
			err = c.send(TypeSubscribed, nil)

		default:
			log.Warn().Str("type", string(env.Type)).Msg("Unknown message type")
			err = c.send(TypeError, ErrorMessage{Message: "unknown message type " + string(env.Type)})
		}

		if err != nil {
			log.Warn().Err(err).Msg("Write failed")
			return
		}
	}
}

func (s *Server) submit(req SubmitRequest) Ack {
	receipt, err := s.engine.SubmitRequest(req.From, req.To)
	ack := ackFromReceipt(receipt)
	switch {
	case err == nil:
	case errors.Is(err, elevator.ErrDuplicateRequest):
		ack.Duplicate = true
	default:
		ack.Error = err.Error()
	}
	return ack
}
