package network

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xtaci/kcp-go"

	"elevatorsim/elevator"
)

// Client is one KCP session to a Server. Requests are answered in order, so
// only one is in flight at a time. Tick pushes arrive on Ticks once
// subscribed.
type Client struct {
	c   *conn
	log zerolog.Logger

	requestMu sync.Mutex
	responses chan envelope
	ticks     chan TickMessage
	done      chan struct{}

	closeOnce sync.Once
	closing   chan struct{}
}

func Dial(addr string, log *zerolog.Logger) (*Client, error) {
	sess, err := kcp.DialWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "kcp dial %s", addr)
	}
	cl := &Client{
		c:         newConn(sess),
		log:       log.With().Str("component", "network-client").Str("remote", addr).Logger(),
		responses: make(chan envelope, 1),
		ticks:     make(chan TickMessage, tickBufferSize),
		done:      make(chan struct{}),
		closing:   make(chan struct{}),
	}
	go cl.readLoop()
	return cl, nil
}

func (cl *Client) readLoop() {
	defer close(cl.ticks)
	defer close(cl.done)

	for {
		env, err := cl.c.receive()
		if err != nil {
			cl.log.Debug().Err(err).Msg("Session ended")
			return
		}

		if env.Type == TypeTick {
			var msg TickMessage
			if err := decodeContent(env, &msg); err != nil {
				cl.log.Warn().Err(err).Msg("Bad tick message")
				continue
			}
			select {
			case cl.ticks <- msg:
			default:
				cl.log.Warn().Uint64("tick", msg.Tick).Msg("Tick buffer full, dropping")
			}
			continue
		}

		select {
		case cl.responses <- env:
		case <-cl.closing:
			return
		}
	}
}

func (cl *Client) roundTrip(ctx context.Context, msgType MessageType, content interface{}, expect MessageType) (envelope, error) {
	cl.requestMu.Lock()
	defer cl.requestMu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestTimeout)
		defer cancel()
	}

	// A late answer to a request that timed out must not be taken as ours.
	select {
	case <-cl.responses:
	default:
	}

	if err := cl.c.send(msgType, content); err != nil {
		return envelope{}, err
	}

	select {
	case env := <-cl.responses:
		if env.Type == TypeError {
			var msg ErrorMessage
			if err := decodeContent(env, &msg); err != nil {
				return envelope{}, err
			}
			return envelope{}, errors.Errorf("server: %s", msg.Message)
		}
		if env.Type != expect {
			return envelope{}, errors.Errorf("expected %s reply to %s, got %s", expect, msgType, env.Type)
		}
		return env, nil
	case <-cl.done:
		return envelope{}, errors.Errorf("session closed waiting for %s", expect)
	case <-ctx.Done():
		return envelope{}, errors.Wrapf(ctx.Err(), "waiting for %s", expect)
	}
}

// Submit sends a request. A duplicate is reported through Ack.Duplicate and a
// rejected request through Ack.Error; err is only set on transport failure.
func (cl *Client) Submit(ctx context.Context, from, to int) (Ack, error) {
	env, err := cl.roundTrip(ctx, TypeSubmitRequest, SubmitRequest{From: from, To: to}, TypeACK)
	if err != nil {
		return Ack{}, err
	}
	var ack Ack
	return ack, decodeContent(env, &ack)
}

func (cl *Client) Elevators(ctx context.Context) ([]elevator.Elevator, error) {
	env, err := cl.roundTrip(ctx, TypeListElevators, nil, TypeElevators)
	if err != nil {
		return nil, err
	}
	var elevators []elevator.Elevator
	return elevators, decodeContent(env, &elevators)
}

func (cl *Client) Floors(ctx context.Context) ([]elevator.Floor, error) {
	env, err := cl.roundTrip(ctx, TypeListFloors, nil, TypeFloors)
	if err != nil {
		return nil, err
	}
	var floors []elevator.Floor
	return floors, decodeContent(env, &floors)
}

// Subscribe asks the server to push a TickMessage after every tick. The
// returned channel is closed when the session ends.
func (cl *Client) Subscribe(ctx context.Context) (<-chan TickMessage, error) {
	if _, err := cl.roundTrip(ctx, TypeSubscribe, nil, TypeSubscribed); err != nil {
		return nil, err
	}
	return cl.ticks, nil
}

func (cl *Client) Close() error {
	var err error
	cl.closeOnce.Do(func() {
		close(cl.closing)
		err = cl.c.close()
	})
	return err
}
