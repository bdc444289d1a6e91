package event

import "fmt"

type Kind uint8

const (
	KindRotate Kind = iota + 1
	KindMoveForward
)

// Event is one logical button action. It is a plain value and safe to copy.
type Event struct {
	Kind     Kind
	Distance int
}

func Rotate() Event {
	return Event{Kind: KindRotate}
}

func MoveForward(distance int) Event {
	return Event{Kind: KindMoveForward, Distance: distance}
}

func (e Event) String() string {
	switch e.Kind {
	case KindRotate:
		return "Rotate"
	case KindMoveForward:
		return fmt.Sprintf("MoveForward(%d)", e.Distance)
	}
	return fmt.Sprintf("Event(%d)", e.Kind)
}
