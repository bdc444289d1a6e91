package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkarrow/pkg/event"
	"inkarrow/pkg/shape"
)

func drain(t *testing.T, q *event.Queue) []event.Event {
	t.Helper()
	var out []event.Event
	for q.Len() > 0 {
		ev, err := q.Receive(context.Background())
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func TestCommands(t *testing.T) {
	q := event.NewQueue()
	arrow := shape.Arrow{X: -80, Y: 20, Radius: 20, Heading: shape.Heading90}
	b := newBot(nil, q.Producer(), func() shape.Arrow { return arrow }, 100, zap.NewNop())

	assert.Equal(t, "OK", b.rotate())
	assert.Equal(t, "OK", b.move(""))
	assert.Equal(t, "OK", b.move(" -30 "))
	assert.Equal(t, "bad distance: far", b.move("far"))

	assert.Equal(t, []event.Event{
		event.Rotate(),
		event.MoveForward(100),
		event.MoveForward(-30),
	}, drain(t, q))

	assert.Equal(t, "x: -80, y: 20, heading: 90°", b.where())
}

func TestCommandsAfterReceiverGone(t *testing.T) {
	q := event.NewQueue()
	b := newBot(nil, q.Producer(), nil, 100, zap.NewNop())
	q.Close()

	assert.Contains(t, b.rotate(), "rotate failed")
	assert.Contains(t, b.move("5"), "move failed")
}
