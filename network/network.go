// Package network exposes the engine over KCP sessions. Every message is a
// JSON envelope tagged with its type.
package network

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xtaci/kcp-go"

	"elevatorsim/dispatch"
	"elevatorsim/elevator"
	"elevatorsim/engine"
)

// Engine is the part of the simulation the transport talks to.
type Engine interface {
	SubmitRequest(from, to int) (dispatch.Receipt, error)
	ListElevators() []elevator.Elevator
	ListFloors() []elevator.Floor
	Subscribe(obs engine.Observer) (cancel func())
}

func tuneSession(sess *kcp.UDPSession) {
	sess.SetStreamMode(true)
	sess.SetWriteDelay(false)
	sess.SetNoDelay(1, 10, 2, 1)
	sess.SetWindowSize(128, 128)
}

// conn wraps a session with a JSON codec. Writes are serialized so that tick
// pushes never interleave with responses.
type conn struct {
	sess *kcp.UDPSession
	dec  *json.Decoder

	writeMu sync.Mutex
	enc     *json.Encoder
}

func newConn(sess *kcp.UDPSession) *conn {
	tuneSession(sess)
	return &conn{sess: sess, dec: json.NewDecoder(sess), enc: json.NewEncoder(sess)}
}

func (c *conn) send(msgType MessageType, content interface{}) error {
	env := envelope{Type: msgType}
	if content != nil {
		data, err := json.Marshal(content)
		if err != nil {
			return errors.Wrapf(err, "marshal %s", msgType)
		}
		env.Content = data
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.sess.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.enc.Encode(env); err != nil {
		return errors.Wrapf(err, "write %s to %s", msgType, c.sess.RemoteAddr())
	}
	return nil
}

// receive blocks for the next envelope. Only one goroutine may call it.
func (c *conn) receive() (envelope, error) {
	var env envelope
	if err := c.dec.Decode(&env); err != nil {
		return envelope{}, err
	}
	return env, nil
}

func (c *conn) close() error { return c.sess.Close() }

func (c *conn) remote() net.Addr { return c.sess.RemoteAddr() }

func decodeContent(env envelope, out interface{}) error {
	if len(env.Content) == 0 {
		return errors.Errorf("%s message has no content", env.Type)
	}
	return errors.Wrapf(json.Unmarshal(env.Content, out), "decode %s", env.Type)
}
