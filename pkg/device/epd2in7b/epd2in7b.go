package epd2in7b

import (
	"image"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"

	"inkarrow/pkg/bitmap"
)

// Panel geometry in its native portrait orientation.
const (
	Width  = 176
	Height = 264
)

const (
	PanelSetting               = 0x00
	PowerSetting               = 0x01
	PowerOff                   = 0x02
	PowerOn                    = 0x04
	BoosterSoftStart           = 0x06
	DeepSleep                  = 0x07
	DataStartTransmission1     = 0x10
	DataStop                   = 0x11
	DisplayRefresh             = 0x12
	DataStartTransmission2     = 0x13
	PartialDisplayRefresh      = 0x16
	LutForVcom                 = 0x20
	LutWW                      = 0x21
	LutBW                      = 0x22
	LutBB                      = 0x23
	LutWB                      = 0x24
	PllControl                 = 0x30
	VcomAndDataIntervalSetting = 0x50
	VcmDcSetting               = 0x82
	PowerOptimization          = 0xF8
)

// defaultMaxTx matches the spidev default buffer size.
const defaultMaxTx = 4096

var ErrBusyTimeout = errors.New("panel stayed busy")

// Pins are the control lines next to the SPI bus. CS may be nil when the
// kernel driver handles chip select.
type Pins struct {
	CS   gpio.PinOut
	DC   gpio.PinOut
	RST  gpio.PinOut
	Busy gpio.PinIn
}

type Option func(e *Epd)

// WithProgress shows a spinner on w while the panel refreshes.
func WithProgress(w io.Writer) Option {
	return func(e *Epd) {
		e.progress = w
	}
}

func WithBusyTimeout(d time.Duration) Option {
	return func(e *Epd) {
		e.busyTimeout = d
	}
}

func New(bus spi.Conn, pins Pins, logger *zap.Logger, opts ...Option) (*Epd, error) {
	if pins.DC == nil || pins.RST == nil || pins.Busy == nil {
		return nil, errors.New("dc, rst and busy pins are required")
	}

	e := &Epd{
		bus:         bus,
		pins:        pins,
		logger:      logger.With(zap.String("device", "epd2in7b")),
		maxTx:       defaultMaxTx,
		busyTimeout: 30 * time.Second,
		delay:       time.Sleep,
	}
	if l, ok := bus.(conn.Limits); ok && l.MaxTxSize() > 0 {
		e.maxTx = l.MaxTxSize()
	}
	for _, opt := range opts {
		opt(e)
	}

	if pins.CS != nil {
		if err := pins.CS.Out(gpio.High); err != nil {
			return nil, errors.Wrap(err, "cs")
		}
	}
	if err := pins.DC.Out(gpio.High); err != nil {
		return nil, errors.Wrap(err, "dc")
	}
	if err := pins.RST.Out(gpio.High); err != nil {
		return nil, errors.Wrap(err, "rst")
	}
	if err := pins.Busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, errors.Wrap(err, "busy")
	}

	return e, nil
}

// Epd drives a Waveshare 2.7inch e-Paper (B) panel: black, white and red.
type Epd struct {
	bus         spi.Conn
	pins        Pins
	logger      *zap.Logger
	maxTx       int
	busyTimeout time.Duration
	progress    io.Writer
	delay       func(time.Duration)
}

func (e *Epd) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Startup resets and powers the panel and loads the waveforms.
func (e *Epd) Startup() error {
	if err := e.reset(); err != nil {
		return err
	}

	if err := e.sendCMD(PowerOn); err != nil {
		return err
	}
	if err := e.waitUntilIdle(); err != nil {
		return err
	}

	steps := []struct {
		code byte
		data []byte
	}{
		{PanelSetting, []byte{0xAF}},
		{PllControl, []byte{0x3A}},
		{PowerSetting, []byte{0x03, 0x00, 0x2B, 0x2B, 0x09}},
		{BoosterSoftStart, []byte{0x07, 0x07, 0x17}},
		{PowerOptimization, []byte{0x60, 0xA5}},
		{PowerOptimization, []byte{0x89, 0xA5}},
		{PowerOptimization, []byte{0x90, 0x00}},
		{PowerOptimization, []byte{0x93, 0x2A}},
		{PowerOptimization, []byte{0x73, 0x41}},
		{VcmDcSetting, []byte{0x12}},
		{VcomAndDataIntervalSetting, []byte{0x87}},
		{LutForVcom, lutVcomDC},
		{LutWW, lutWW},
		{LutBW, lutBW},
		{LutBB, lutBB},
		{LutWB, lutWB},
		{PartialDisplayRefresh, []byte{0x00}},
	}
	for _, s := range steps {
		if err := e.sendCMD(s.code, s.data...); err != nil {
			return err
		}
	}

	e.logger.Info("initialized")
	return nil
}

// ClearFrame blanks both planes in panel memory. It does not refresh.
func (e *Epd) ClearFrame() error {
	blank := bitmap.NewTriColor(e.Bounds())
	blank.Fill(bitmap.White)
	return e.sendPlanes(blank.Black(), blank.Red())
}

func (e *Epd) UpdateFrame(frame *bitmap.TriColor) error {
	if frame == nil {
		return errors.New("nil frame")
	}
	if !frame.Bounds().Eq(e.Bounds()) {
		return errors.Errorf("frame is %v, panel is %v", frame.Bounds(), e.Bounds())
	}
	return e.sendPlanes(frame.Black(), frame.Red())
}

// DisplayFrame refreshes the panel from its memory and blocks until done.
func (e *Epd) DisplayFrame() error {
	if err := e.sendCMD(DisplayRefresh); err != nil {
		return err
	}
	return e.waitUntilIdle()
}

// Sleep powers the panel down. Only a reset, as done by Startup, wakes it.
func (e *Epd) Sleep() error {
	if err := e.sendCMD(VcomAndDataIntervalSetting, 0xF7); err != nil {
		return err
	}
	if err := e.sendCMD(PowerOff); err != nil {
		return err
	}
	return e.sendCMD(DeepSleep, 0xA5)
}

func (e *Epd) sendPlanes(black, red []byte) error {
	if err := e.sendCMD(DataStartTransmission1); err != nil {
		return err
	}
	if err := e.sendData(black); err != nil {
		return err
	}
	if err := e.sendCMD(DataStop); err != nil {
		return err
	}
	if err := e.sendCMD(DataStartTransmission2); err != nil {
		return err
	}
	if err := e.sendData(red); err != nil {
		return err
	}
	return e.sendCMD(DataStop)
}
