package virtual

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"inkarrow/pkg/bitmap"
)

type Option func(m *Mocker)

// WithSnapshots stores every displayed frame as a PNG in fs, upscaled by
// scale so the small panel is readable on a desktop.
func WithSnapshots(fs afero.Fs, scale int) Option {
	return func(m *Mocker) {
		m.fs = fs
		if scale > 0 {
			m.scale = scale
		}
	}
}

func Mock(logger *zap.Logger, opts ...Option) *Mocker {
	m := &Mocker{l: logger.With(zap.String("device", "virtual")), scale: 1}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mocker stands in for the panel: it logs every command and can keep the
// frames it is asked to show.
type Mocker struct {
	l       *zap.Logger
	fs      afero.Fs
	scale   int
	pending *bitmap.TriColor
	shown   []string
}

func (m *Mocker) Startup() error {
	m.l.Info("startup")
	return nil
}

func (m *Mocker) Sleep() error {
	m.l.Info("sleep")
	return nil
}

func (m *Mocker) ClearFrame() error {
	m.l.Info("clear-frame")
	m.pending = nil
	return nil
}

func (m *Mocker) UpdateFrame(frame *bitmap.TriColor) error {
	if frame == nil {
		return errors.New("nil frame")
	}
	m.pending = frame
	m.l.With(
		zap.Int("w", frame.Bounds().Dx()),
		zap.Int("h", frame.Bounds().Dy()),
		zap.String("size", bytesize.New(float64(len(frame.Black())+len(frame.Red()))).String()),
	).Info("update-frame")
	return nil
}

func (m *Mocker) DisplayFrame() error {
	if m.pending == nil {
		return errors.New("no frame to display")
	}
	m.l.Info("display-frame")

	if m.fs == nil {
		return nil
	}
	name, err := m.save(m.pending)
	if err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	m.shown = append(m.shown, name)
	m.l.With(zap.String("file", name)).Debug("snapshot saved")
	return nil
}

func (m *Mocker) save(frame *bitmap.TriColor) (string, error) {
	b := frame.Bounds()
	img := imaging.Resize(frame, b.Dx()*m.scale, b.Dy()*m.scale, imaging.NearestNeighbor)

	name := fmt.Sprintf("%s.png", xid.New().String())
	f, err := m.fs.Create(name)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	return name, imaging.Encode(f, img, imaging.PNG)
}

// Snapshots lists the files written so far, oldest first.
func (m *Mocker) Snapshots() []string {
	return m.shown
}
