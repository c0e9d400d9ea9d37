package osc

import (
	"net"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/sandmap/internal/dispatch"
	"github.com/iburimskiy/sandmap/internal/logging"
)

var _ dispatch.Source = (*Receiver)(nil)

func TestDispatchMessage(t *testing.T) {
	r := NewReceiver(nil, 8, zerolog.Nop())
	r.Dispatch(osc.NewMessage("/arduino/digital", int32(2), int32(0)))

	msg, ok := r.Poll()
	require.True(t, ok)
	assert.Equal(t, "/arduino/digital", msg.Address)
	pin, err := msg.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 2, pin)
	assert.False(t, msg.Received.IsZero())

	_, ok = r.Poll()
	assert.False(t, ok)
}

func TestDispatchBundleKeepsOrder(t *testing.T) {
	r := NewReceiver(nil, 8, zerolog.Nop())
	b := osc.NewBundle(time.Now())
	require.NoError(t, b.Append(osc.NewMessage("/a")))
	require.NoError(t, b.Append(osc.NewMessage("/b")))
	inner := osc.NewBundle(time.Now())
	require.NoError(t, inner.Append(osc.NewMessage("/c")))
	require.NoError(t, b.Append(inner))
	r.Dispatch(b)

	var got []string
	for {
		m, ok := r.Poll()
		if !ok {
			break
		}
		got = append(got, m.Address)
	}
	assert.Equal(t, []string{"/a", "/b", "/c"}, got)
}

func TestInboxFullDrops(t *testing.T) {
	r := NewReceiver(nil, 2, zerolog.Nop())
	for i := 0; i < 5; i++ {
		r.Dispatch(osc.NewMessage("/twitter-app", "Tokyo"))
	}
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, uint64(3), r.Dropped())
	assert.Equal(t, uint64(3), r.TakeDropped())
	assert.Equal(t, uint64(0), r.TakeDropped())
}

func TestDrainWithSteadyProducer(t *testing.T) {
	r := NewReceiver(nil, 1024, zerolog.Nop())
	for i := 0; i < 10; i++ {
		r.Dispatch(osc.NewMessage("/twitter-app", "Tokyo"))
	}

	d, err := dispatch.New(logging.NewDispatcherLogger(zerolog.Nop()))
	require.NoError(t, err)
	d.Register("/twitter-app", func(dispatch.Message) error {
		time.Sleep(50 * time.Microsecond)
		return nil
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				r.Dispatch(osc.NewMessage("/twitter-app", "Rome"))
			}
		}
	}()

	done := make(chan int, 1)
	go func() { done <- d.Drain(r) }()

	select {
	case n := <-done:
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 1024)
	case <-time.After(2 * time.Second):
		t.Fatal("drain did not return while a producer kept sending")
	}
}

func TestListenOverUDP(t *testing.T) {
	r, err := Listen("127.0.0.1:0", 16, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()

	conn, err := net.Dial("udp", r.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	for _, addr := range []string{"/arduino/analog", "/arduino/digital"} {
		data, err := osc.NewMessage(addr, int32(1), float32(512)).MarshalBinary()
		require.NoError(t, err)
		_, err = conn.Write(data)
		require.NoError(t, err)
	}

	var got []string
	require.Eventually(t, func() bool {
		for {
			m, ok := r.Poll()
			if !ok {
				break
			}
			got = append(got, m.Address)
		}
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"/arduino/analog", "/arduino/digital"}, got)
}

func TestCloseIsIdempotent(t *testing.T) {
	r, err := Listen("127.0.0.1:0", 1, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
	assert.Nil(t, NewReceiver(nil, 1, zerolog.Nop()).Addr())
}
