package control

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inkarrow/pkg/bitmap"
	"inkarrow/pkg/event"
	"inkarrow/pkg/proto"
	"inkarrow/pkg/shape"
)

// Framebuffer is a draw target that can be packed for the panel.
type Framebuffer interface {
	shape.Target
	Frame() *bitmap.TriColor
}

func New(arrow shape.Arrow, fb Framebuffer, dev proto.Control, queue *event.Queue, logger *zap.Logger) *Loop {
	l := &Loop{
		arrow:  arrow,
		fb:     fb,
		dev:    dev,
		queue:  queue,
		logger: logger.With(zap.String("via", "control")),
	}
	l.publish()
	return l
}

// Loop is the only place the arrow is mutated and the panel refreshed.
// Everything else talks to it through the queue.
type Loop struct {
	arrow  shape.Arrow
	fb     Framebuffer
	dev    proto.Control
	queue  *event.Queue
	logger *zap.Logger

	snapshot atomic.Pointer[shape.Arrow]
	frames   atomic.Int64
}

// Start paints the initial frame on a freshly cleared panel.
func (l *Loop) Start() error {
	l.fb.ClearBuffer(bitmap.White)
	if err := l.dev.ClearFrame(); err != nil {
		return fmt.Errorf("clear frame failed: %w", err)
	}
	return l.refresh()
}

// Run applies queued events one by one, refreshing the panel after each.
// It returns nil after putting the panel to sleep once the queue drains or
// ctx is cancelled; a failed refresh is returned as is.
func (l *Loop) Run(ctx context.Context) error {
	defer l.queue.Close()

	l.logger.Info("waiting for input")
	for {
		ev, err := l.queue.Receive(ctx)
		if err != nil {
			if !errors.Is(err, event.ErrDrained) && ctx.Err() == nil {
				return err
			}
			l.logger.With(zap.NamedError("reason", err)).Info("finished, going to sleep")
			if err := l.dev.Sleep(); err != nil {
				return fmt.Errorf("sleep failed: %w", err)
			}
			return nil
		}

		if !l.Apply(ev) {
			continue
		}
		if err := l.refresh(); err != nil {
			return err
		}
	}
}

// Apply mutates the arrow for one event without touching the panel. It
// reports false for events it does not know, which leave the arrow as is.
func (l *Loop) Apply(ev event.Event) bool {
	switch ev.Kind {
	case event.KindRotate:
		l.arrow.Rotate()
	case event.KindMoveForward:
		l.arrow.MoveForward(ev.Distance)
	default:
		l.logger.With(zap.Stringer("event", ev)).Warn("unknown event")
		return false
	}
	l.publish()

	l.logger.With(
		zap.Stringer("event", ev),
		zap.Int("x", l.arrow.X),
		zap.Int("y", l.arrow.Y),
		zap.Stringer("heading", l.arrow.Heading),
	).Debug("applied")
	return true
}

func (l *Loop) refresh() error {
	l.arrow.Draw(l.fb)

	if err := l.dev.UpdateFrame(l.fb.Frame()); err != nil {
		return fmt.Errorf("update frame failed: %w", err)
	}
	if err := l.dev.DisplayFrame(); err != nil {
		return fmt.Errorf("display frame failed: %w", err)
	}

	l.frames.Add(1)
	return nil
}

func (l *Loop) publish() {
	a := l.arrow
	l.snapshot.Store(&a)
}

// Snapshot is the arrow as of the last applied event. Safe from any goroutine.
func (l *Loop) Snapshot() shape.Arrow {
	return *l.snapshot.Load()
}

// Frames counts completed panel refreshes, the initial one included.
func (l *Loop) Frames() int64 {
	return l.frames.Load()
}
