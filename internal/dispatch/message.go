package dispatch

import (
	"errors"
	"fmt"
	"time"
)

// ErrArgument is returned by the typed accessors for a missing or mistyped argument.
var ErrArgument = errors.New("bad message argument")

// Message is one address-tagged control message.
type Message struct {
	Address  string
	Args     []any
	Received time.Time
}

// NewMessage builds a message stamped with the current time.
func NewMessage(address string, args ...any) Message {
	return Message{Address: address, Args: args, Received: time.Now()}
}

func (m Message) arg(i int) (any, error) {
	if i < 0 || i >= len(m.Args) {
		return nil, fmt.Errorf("%w: %s has %d args, want index %d", ErrArgument, m.Address, len(m.Args), i)
	}
	return m.Args[i], nil
}

// Int returns argument i as an int. Floats are truncated, bools map to 0/1.
func (m Message) Int(i int) (int, error) {
	a, err := m.arg(i)
	if err != nil {
		return 0, err
	}
	switch v := a.(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s arg %d is %T, want int", ErrArgument, m.Address, i, a)
}

// Float returns argument i as a float64.
func (m Message) Float(i int) (float64, error) {
	a, err := m.arg(i)
	if err != nil {
		return 0, err
	}
	switch v := a.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %s arg %d is %T, want float", ErrArgument, m.Address, i, a)
}

// String returns argument i as a string.
func (m Message) String(i int) (string, error) {
	a, err := m.arg(i)
	if err != nil {
		return "", err
	}
	switch v := a.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("%w: %s arg %d is %T, want string", ErrArgument, m.Address, i, a)
}
