package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrUnknownAddress is returned by Dispatch for an address with no handler.
var ErrUnknownAddress = errors.New("unknown address")

// HandlerFunc processes one message.
type HandlerFunc func(Message) error

// Source is a non-blocking message queue, drained once per frame.
type Source interface {
	// Poll returns the next queued message, or false when nothing is waiting.
	Poll() (Message, bool)
	// Len is the number of messages waiting right now.
	Len() int
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes messages to handlers by address.
// It is not safe for concurrent use; the frame loop owns it.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	unknown   metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a Dispatcher.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error
	d.processed, err = m.Int64Counter(
		"dispatch.messages.processed",
		metric.WithDescription("Total messages handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.unknown, err = m.Int64Counter(
		"dispatch.messages.unknown",
		metric.WithDescription("Messages with no registered handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating unknown counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatch.messages.failed",
		metric.WithDescription("Messages whose handler returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given address with optional configuration.
func (d *Dispatcher) Register(address string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if cfg.logged {
		handler = d.withLogging(address, handler)
	}

	d.handlers[address] = handler
}

// HasHandler returns true if a handler is registered for the address.
func (d *Dispatcher) HasHandler(address string) bool {
	_, ok := d.handlers[address]
	return ok
}

// Dispatch routes a message to its registered handler.
func (d *Dispatcher) Dispatch(msg Message) error {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("address", msg.Address))

	h, ok := d.handlers[msg.Address]
	if !ok {
		d.unknown.Add(ctx, 1, attrs)
		return fmt.Errorf("%w: %s", ErrUnknownAddress, msg.Address)
	}
	if err := h(msg); err != nil {
		d.failed.Add(ctx, 1, attrs)
		return err
	}
	d.processed.Add(ctx, 1, attrs)
	return nil
}

// Drain dispatches the messages queued in src when it is called, in arrival
// order, and returns how many were taken. Messages arriving during the drain
// wait for the next call. Handler errors are logged and do not stop the drain.
func (d *Dispatcher) Drain(src Source) int {
	queued := src.Len()
	n := 0
	for n < queued {
		msg, ok := src.Poll()
		if !ok {
			break
		}
		n++
		if err := d.Dispatch(msg); err != nil {
			if errors.Is(err, ErrUnknownAddress) {
				d.logger.Debug("ignoring message", "address", msg.Address)
				continue
			}
			d.logger.Error("message failed", "address", msg.Address, "error", err)
		}
	}
	return n
}

func (d *Dispatcher) withLogging(address string, h HandlerFunc) HandlerFunc {
	return func(msg Message) error {
		start := time.Now()
		d.logger.Debug("handling message", "address", address, "args", len(msg.Args))

		err := h(msg)

		if err != nil {
			d.logger.Error("message failed", "address", address, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("message complete", "address", address, "duration", time.Since(start))
		}
		return err
	}
}

// Queue is an in-memory Source, used by the keyboard fallback and tests.
type Queue struct {
	msgs []Message
}

// Push appends a message.
func (q *Queue) Push(msg Message) {
	q.msgs = append(q.msgs, msg)
}

// Poll implements Source.
func (q *Queue) Poll() (Message, bool) {
	if len(q.msgs) == 0 {
		return Message{}, false
	}
	msg := q.msgs[0]
	q.msgs[0] = Message{}
	q.msgs = q.msgs[1:]
	return msg, true
}

// Len returns the number of queued messages.
func (q *Queue) Len() int { return len(q.msgs) }
