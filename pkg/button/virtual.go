package button

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// VirtualLine is an input line driven from software: tests, or levels
// relayed by SerialBridge. It idles high like a pulled-up button.
//
// Level, pull and name bookkeeping come from gpiotest.Pin; on top of it the
// line filters edges by the configured detection and can be halted.
type VirtualLine struct {
	gpiotest.Pin

	edge gpio.Edge
	halt chan struct{}
}

func NewVirtualLine(name string) *VirtualLine {
	return &VirtualLine{
		Pin: gpiotest.Pin{
			N:         name,
			L:         gpio.High,
			P:         gpio.PullNoChange,
			EdgesChan: make(chan gpio.Level, 64),
		},
		edge: gpio.NoEdge,
		halt: make(chan struct{}, 1),
	}
}

// In records the pull and edge detection. The level is left alone, it is
// whatever was last pushed.
func (l *VirtualLine) In(pull gpio.Pull, edge gpio.Edge) error {
	l.Lock()
	defer l.Unlock()
	l.P = pull
	l.edge = edge
	return nil
}

// Edge reports the edge detection the line was configured with.
func (l *VirtualLine) Edge() gpio.Edge {
	l.Lock()
	defer l.Unlock()
	return l.edge
}

// Push sets the line level and records an edge when the transition matches
// the configured detection. Edges beyond the buffer are lost, as on a busy
// interrupt line.
func (l *VirtualLine) Push(level gpio.Level) {
	l.Lock()
	prev := l.L
	l.L = level
	fire := prev != level && (l.edge == gpio.BothEdges ||
		(l.edge == gpio.FallingEdge && level == gpio.Low) ||
		(l.edge == gpio.RisingEdge && level == gpio.High))
	l.Unlock()

	if fire {
		select {
		case l.EdgesChan <- level:
		default:
		}
	}
}

// WaitForEdge blocks for an edge, a Halt or the timeout. A negative timeout
// waits forever.
func (l *VirtualLine) WaitForEdge(timeout time.Duration) bool {
	select {
	case <-l.EdgesChan:
		return true
	default:
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-l.EdgesChan:
		return true
	case <-l.halt:
		return false
	case <-expired:
		return false
	}
}

func (l *VirtualLine) Halt() error {
	select {
	case l.halt <- struct{}{}:
	default:
	}
	return nil
}
