package epd2in7b

import (
	"fmt"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

const busyPoll = 10 * time.Millisecond

func (e *Epd) reset() error {
	for _, step := range []struct {
		level gpio.Level
		wait  time.Duration
	}{
		{gpio.High, 200 * time.Millisecond},
		{gpio.Low, 10 * time.Millisecond},
		{gpio.High, 200 * time.Millisecond},
	} {
		if err := e.pins.RST.Out(step.level); err != nil {
			return errors.Wrap(err, "reset")
		}
		e.delay(step.wait)
	}
	return nil
}

func (e *Epd) sendCMD(code byte, data ...byte) error {
	if err := e.pins.DC.Out(gpio.Low); err != nil {
		return errors.Wrap(err, "dc low")
	}
	if err := e.transfer([]byte{code}); err != nil {
		return errors.Wrapf(err, "command 0x%02x", code)
	}
	if len(data) == 0 {
		return nil
	}
	return e.sendData(data)
}

func (e *Epd) sendData(data []byte) error {
	if err := e.pins.DC.Out(gpio.High); err != nil {
		return errors.Wrap(err, "dc high")
	}

	start := time.Now()
	for off := 0; off < len(data); off += e.maxTx {
		end := off + e.maxTx
		if end > len(data) {
			end = len(data)
		}
		if err := e.transfer(data[off:end]); err != nil {
			return errors.Wrapf(err, "data at %d", off)
		}
	}

	ext := ""
	if len(data) <= 16 {
		ext = fmt.Sprintf("%x", data)
	}

	e.logger.With(
		zap.String("sent", bytesize.New(float64(len(data))).String()),
		zap.String("cost", time.Since(start).String()),
		zap.String("data", ext),
	).Debug("transfer")

	return nil
}

func (e *Epd) transfer(w []byte) error {
	if e.pins.CS != nil {
		if err := e.pins.CS.Out(gpio.Low); err != nil {
			return err
		}
		defer func() {
			_ = e.pins.CS.Out(gpio.High)
		}()
	}
	return e.bus.Tx(w, nil)
}

// waitUntilIdle polls the busy line, which this panel holds low while it
// works.
func (e *Epd) waitUntilIdle() error {
	var bar *progressbar.ProgressBar
	if e.progress != nil {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(e.progress),
			progressbar.OptionSetDescription("refreshing panel"),
			progressbar.OptionSpinnerType(14),
		)
		defer func() {
			_ = bar.Finish()
		}()
	}

	start := time.Now()
	for e.pins.Busy.Read() == gpio.Low {
		if time.Since(start) > e.busyTimeout {
			return errors.Wrapf(ErrBusyTimeout, "after %s", e.busyTimeout)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		e.delay(busyPoll)
	}

	e.logger.With(zap.String("cost", time.Since(start).String())).Debug("idle")
	return nil
}
