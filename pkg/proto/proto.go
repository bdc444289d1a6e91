package proto

import (
	"inkarrow/pkg/bitmap"
)

// Control is the physical side of the e-ink panel: frame transfer, refresh
// and power.
type Control interface {
	Startup() error
	Sleep() error

	ClearFrame() error
	UpdateFrame(frame *bitmap.TriColor) error
	DisplayFrame() error
}
