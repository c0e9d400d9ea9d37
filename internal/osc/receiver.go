// Package osc receives OSC packets over UDP and queues them for the update
// loop.
package osc

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/sandmap/internal/dispatch"
)

const maxPacketSize = 65535

// Receiver reads packets on its own goroutine and buffers the decoded
// messages in a bounded inbox. A full inbox drops new messages.
type Receiver struct {
	conn    net.PacketConn
	inbox   chan dispatch.Message
	dropped atomic.Uint64
	logger  zerolog.Logger

	closing   atomic.Bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ osc.Dispatcher = (*Receiver)(nil)

// Listen opens a UDP socket on addr and starts reading.
func Listen(addr string, inboxSize int, logger zerolog.Logger) (*Receiver, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen osc %s: %w", addr, err)
	}
	r := NewReceiver(conn, inboxSize, logger)
	r.Start()
	logger.Info().Str("addr", conn.LocalAddr().String()).Msg("osc listening")
	return r, nil
}

// NewReceiver wraps conn without starting the read loop. conn may be nil
// when messages are fed through Dispatch directly.
func NewReceiver(conn net.PacketConn, inboxSize int, logger zerolog.Logger) *Receiver {
	if inboxSize <= 0 {
		inboxSize = 1
	}
	return &Receiver{
		conn:   conn,
		inbox:  make(chan dispatch.Message, inboxSize),
		logger: logger,
	}
}

// Start runs the read loop.
func (r *Receiver) Start() {
	if r.conn == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.serve(); err != nil {
			r.logger.Error().Err(err).Msg("osc receiver stopped")
		}
	}()
}

// serve reads sequentially so packets keep their arrival order.
func (r *Receiver) serve() error {
	buf := make([]byte, maxPacketSize)
	for {
		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			if r.closing.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			r.logger.Debug().Err(err).Int("bytes", n).Msg("bad osc packet")
			continue
		}
		r.Dispatch(packet)
	}
}

// Dispatch queues every message of packet, flattening bundles.
func (r *Receiver) Dispatch(packet osc.Packet) {
	now := time.Now()
	switch p := packet.(type) {
	case *osc.Message:
		r.enqueue(p, now)
	case *osc.Bundle:
		r.dispatchBundle(p, now)
	}
}

func (r *Receiver) dispatchBundle(b *osc.Bundle, now time.Time) {
	for _, m := range b.Messages {
		r.enqueue(m, now)
	}
	for _, inner := range b.Bundles {
		r.dispatchBundle(inner, now)
	}
}

func (r *Receiver) enqueue(m *osc.Message, now time.Time) {
	if m == nil {
		return
	}
	msg := dispatch.Message{
		Address:  m.Address,
		Args:     append([]any(nil), m.Arguments...),
		Received: now,
	}
	select {
	case r.inbox <- msg:
	default:
		r.dropped.Add(1)
	}
}

// Poll returns the next queued message without blocking.
func (r *Receiver) Poll() (dispatch.Message, bool) {
	select {
	case m := <-r.inbox:
		return m, true
	default:
		return dispatch.Message{}, false
	}
}

// Len is the number of queued messages.
func (r *Receiver) Len() int { return len(r.inbox) }

// Dropped is the total number of messages dropped so far.
func (r *Receiver) Dropped() uint64 { return r.dropped.Load() }

// TakeDropped returns the drops since the previous call.
func (r *Receiver) TakeDropped() uint64 { return r.dropped.Swap(0) }

// Addr is the bound local address, nil without a connection.
func (r *Receiver) Addr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Close stops the read loop and waits for it.
func (r *Receiver) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.closing.Store(true)
		if r.conn != nil {
			err = r.conn.Close()
		}
		r.wg.Wait()
	})
	return err
}
