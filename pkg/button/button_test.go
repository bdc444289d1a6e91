package button

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"

	"inkarrow/pkg/event"
)

func receive(t *testing.T, q *event.Queue) event.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := q.Receive(ctx)
	require.NoError(t, err)
	return ev
}

func press(l *VirtualLine) {
	l.Push(gpio.Low)
	l.Push(gpio.High)
}

func TestOnEdgeFilter(t *testing.T) {
	q := event.NewQueue()
	b := NewMove(NewVirtualLine("GPIO20"), q.Producer(), 100, zap.NewNop())

	require.NoError(t, b.OnEdge(gpio.High))
	assert.Zero(t, q.Len())

	require.NoError(t, b.OnEdge(gpio.Low))
	assert.Equal(t, event.MoveForward(100), receive(t, q))
}

func TestOnEdgeReceiverGone(t *testing.T) {
	q := event.NewQueue()
	b := NewRotate(NewVirtualLine("GPIO21"), q.Producer(), zap.NewNop())
	q.Close()

	err := b.OnEdge(gpio.Low)
	assert.True(t, errors.Is(err, event.ErrReceiverGone))
}

func runButton(t *testing.T, b *Button, l *VirtualLine) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	require.Eventually(t, func() bool { return l.Edge() == gpio.FallingEdge }, time.Second, time.Millisecond)
	return cancel, done
}

func TestRunEmitsOnPress(t *testing.T) {
	q := event.NewQueue()
	l := NewVirtualLine("GPIO21")
	cancel, done := runButton(t, NewRotate(l, q.Producer(), zap.NewNop()), l)

	l.Push(gpio.Low)
	assert.Equal(t, event.Rotate(), receive(t, q))
	l.Push(gpio.High)

	l.Push(gpio.Low)
	assert.Equal(t, event.Rotate(), receive(t, q))

	cancel()
	require.NoError(t, <-done)

	// the button closed its producer, so the queue drains
	_, err := q.Receive(context.Background())
	assert.True(t, errors.Is(err, event.ErrDrained))
}

func TestRunIgnoresRelease(t *testing.T) {
	q := event.NewQueue()
	l := NewVirtualLine("GPIO20")
	cancel, done := runButton(t, NewMove(l, q.Producer(), 100, zap.NewNop()), l)
	defer cancel()

	l.Push(gpio.Low)
	receive(t, q)
	l.Push(gpio.High)

	ctx, stop := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer stop()
	_, err := q.Receive(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	cancel()
	require.NoError(t, <-done)
}

func TestRunFailsWhenReceiverGone(t *testing.T) {
	q := event.NewQueue()
	l := NewVirtualLine("GPIO20")
	cancel, done := runButton(t, NewMove(l, q.Producer(), 100, zap.NewNop()), l)
	defer cancel()

	q.Close()
	l.Push(gpio.Low)

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, event.ErrReceiverGone))
	case <-time.After(time.Second):
		t.Fatal("button kept running after the receiver went away")
	}
}

func TestVirtualLineEdges(t *testing.T) {
	l := NewVirtualLine("x")
	assert.Equal(t, gpio.High, l.Read())

	// no detection configured yet
	press(l)
	assert.False(t, l.WaitForEdge(0))

	require.NoError(t, l.In(gpio.PullUp, gpio.FallingEdge))
	l.Push(gpio.High)
	assert.False(t, l.WaitForEdge(0), "no transition")
	l.Push(gpio.Low)
	assert.True(t, l.WaitForEdge(0))
	assert.Equal(t, gpio.Low, l.Read())
	l.Push(gpio.High)
	assert.False(t, l.WaitForEdge(0), "rising edge filtered")

	require.NoError(t, l.Halt())
	assert.False(t, l.WaitForEdge(-1))
}

var _ gpio.PinIO = (*VirtualLine)(nil)

func TestVirtualLineBookkeeping(t *testing.T) {
	l := NewVirtualLine("GPIO20")
	assert.Equal(t, "GPIO20", l.Name())
	assert.Equal(t, gpio.PullNoChange, l.Pull())

	require.NoError(t, l.In(gpio.PullUp, gpio.FallingEdge))
	assert.Equal(t, gpio.PullUp, l.Pull())
	assert.Equal(t, gpio.High, l.Read(), "configuring keeps the pushed level")
}

func TestSerialBridge(t *testing.T) {
	input := strings.NewReader("GPIO20 0\nGPIO20 1\ngarbage\nGPIO99 0\nGPIO21 0\n")
	s := NewSerialBridge(input, zap.NewNop())

	move, rotate := s.Line("GPIO20"), s.Line("GPIO21")
	assert.Same(t, move, s.Line("GPIO20"))
	require.NoError(t, move.In(gpio.PullUp, gpio.FallingEdge))
	require.NoError(t, rotate.In(gpio.PullUp, gpio.FallingEdge))

	require.NoError(t, s.Run(context.Background()))

	assert.True(t, move.WaitForEdge(0))
	assert.False(t, move.WaitForEdge(0))
	assert.Equal(t, gpio.High, move.Read())

	assert.True(t, rotate.WaitForEdge(0))
	assert.Equal(t, gpio.Low, rotate.Read())
}
