package button

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

// SerialBridge relays button levels reported by a microcontroller over a
// serial line. Each report is one line, "<line> <0|1>", e.g. "GPIO20 0".
type SerialBridge struct {
	r      io.Reader
	logger *zap.Logger

	mu    sync.Mutex
	lines map[string]*VirtualLine
}

func NewSerialBridge(r io.Reader, logger *zap.Logger) *SerialBridge {
	return &SerialBridge{
		r:      r,
		logger: logger.With(zap.String("via", "serial-bridge")),
		lines:  map[string]*VirtualLine{},
	}
}

// Line returns the virtual line fed by reports for name.
func (s *SerialBridge) Line(name string) *VirtualLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lines[name]; ok {
		return l
	}
	l := NewVirtualLine(name)
	s.lines[name] = l
	return l
}

// Run reads reports until ctx is done or the reader ends. The reader should
// have a read timeout, otherwise cancellation waits for the next byte.
func (s *SerialBridge) Run(ctx context.Context) error {
	var pending []byte
	buf := make([]byte, 64)

	for ctx.Err() == nil {
		n, err := s.r.Read(buf)
		pending = append(pending, buf[:n]...)

		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			s.report(string(pending[:i]))
			pending = pending[i+1:]
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("serial bridge: %w", err)
		}
	}
	return nil
}

func (s *SerialBridge) report(raw string) {
	fields := strings.Fields(raw)
	if len(fields) != 2 || (fields[1] != "0" && fields[1] != "1") {
		s.logger.With(zap.String("report", raw)).Warn("malformed")
		return
	}

	s.mu.Lock()
	l, ok := s.lines[fields[0]]
	known := lo.Keys(s.lines)
	s.mu.Unlock()

	if !ok {
		s.logger.With(zap.String("line", fields[0]), zap.Strings("known", known)).Warn("unknown line")
		return
	}
	l.Push(lo.Ternary(fields[1] == "1", gpio.High, gpio.Low))
}
