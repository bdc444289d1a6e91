package button

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"

	"inkarrow/pkg/event"
)

// pollInterval bounds how long a watcher sits in WaitForEdge before it
// looks at its context again.
const pollInterval = 500 * time.Millisecond

// Line is the part of a GPIO input pin a button needs. periph's gpio.PinIO
// satisfies it.
type Line interface {
	Name() string
	In(pull gpio.Pull, edge gpio.Edge) error
	WaitForEdge(timeout time.Duration) bool
	Read() gpio.Level
	Halt() error
}

func NewMove(line Line, producer *event.Producer, distance int, logger *zap.Logger) *Button {
	return newButton("move", line, producer, event.MoveForward(distance), logger)
}

func NewRotate(line Line, producer *event.Producer, logger *zap.Logger) *Button {
	return newButton("rotate", line, producer, event.Rotate(), logger)
}

func newButton(name string, line Line, producer *event.Producer, emit event.Event, logger *zap.Logger) *Button {
	return &Button{
		name:     name,
		line:     line,
		producer: producer,
		emit:     emit,
		logger:   logger.With(zap.String("button", name), zap.String("line", line.Name())),
	}
}

// Button turns presses on an active-low, pulled-up input into events.
type Button struct {
	name     string
	line     Line
	producer *event.Producer
	emit     event.Event
	logger   *zap.Logger
}

// Run watches the line until ctx is done. It owns the producer and closes it
// on return. A failed send ends the watch with an error.
func (b *Button) Run(ctx context.Context) error {
	defer func() {
		_ = b.producer.Close()
	}()

	if err := b.line.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("%s button: configure %s: %w", b.name, b.line.Name(), err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = b.line.Halt()
	})
	defer stop()

	b.logger.Debug("watching")
	for ctx.Err() == nil {
		if !b.line.WaitForEdge(pollInterval) {
			continue
		}
		if err := b.OnEdge(b.line.Read()); err != nil {
			return err
		}
	}
	return nil
}

// OnEdge is the interrupt callback: a low level means the button is down.
func (b *Button) OnEdge(level gpio.Level) error {
	b.logger.With(zap.Stringer("level", level)).Debug("pushed")
	if level != gpio.Low {
		return nil
	}
	if err := b.producer.Send(b.emit); err != nil {
		return fmt.Errorf("%s button: send %s: %w", b.name, b.emit, err)
	}
	return nil
}
