package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"inkarrow/pkg/bot"
	"inkarrow/pkg/button"
	"inkarrow/pkg/canvas"
	"inkarrow/pkg/control"
	"inkarrow/pkg/device/epd2in7b"
	"inkarrow/pkg/device/remote"
	"inkarrow/pkg/device/virtual"
	"inkarrow/pkg/event"
	"inkarrow/pkg/proto"
	"inkarrow/pkg/shape"
)

var radius = flag.Int("radius", 20, "arrow radius in pixels")
var distance = flag.Int("distance", 100, "pixels moved per press")
var movePin = flag.String("move", "GPIO20", "move button line")
var rotatePin = flag.String("rotate", "GPIO21", "rotate button line")
var panel = flag.String("panel", "", "empty for local spi, virtual, or remote addr")
var spiPort = flag.String("spi", "", "spi port name, empty for the first one")
var speed = flag.String("speed", "4MHz", "spi clock")
var csPin = flag.String("cs", "GPIO5", "panel chip select line")
var dcPin = flag.String("dc", "GPIO6", "panel data/command line")
var rstPin = flag.String("rst", "GPIO13", "panel reset line")
var busyPin = flag.String("busy", "GPIO19", "panel busy line")
var snapshots = flag.String("snapshots", "", "virtual panel: directory for frame snapshots")
var scale = flag.Int("scale", 2, "virtual panel: snapshot upscale")
var buttons = flag.String("buttons", "", "serial port relaying button levels instead of gpio")
var tgToken = flag.String("tg-token", "", "telegram bot token")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	logger, err := lo.Ternary(*debug, zap.NewDevelopment, zap.NewProduction)()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	needHost := *panel == "" || *buttons == ""
	if needHost {
		if _, err := host.Init(); err != nil {
			logger.With(zap.Error(err)).Fatal("host init failed")
		}
	}

	dev, err := openPanel(logger)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("open panel failed")
	}

	if err := dev.Startup(); err != nil {
		logger.With(zap.Error(err)).Fatal("panel startup failed")
	}

	queue := event.NewQueue()
	loop := control.New(
		shape.NewArrow(*radius),
		canvas.New(epd2in7b.Width, epd2in7b.Height),
		dev,
		queue,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watch, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(watch)

	// producers exist before anything runs, so the queue cannot drain early
	moveLine, rotateLine, err := openLines(g, gctx, logger)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("open buttons failed")
	}

	move := button.NewMove(moveLine, queue.Producer(), *distance, logger)
	rotate := button.NewRotate(rotateLine, queue.Producer(), logger)
	g.Go(func() error { return move.Run(gctx) })
	g.Go(func() error { return rotate.Run(gctx) })

	if *tgToken != "" {
		b, err := bot.New(*tgToken, queue.Producer(), loop.Snapshot, *distance, logger)
		if err != nil {
			logger.With(zap.Error(err)).Fatal("bot init failed")
		}
		g.Go(func() error { return b.Run(gctx) })
	}

	if err := loop.Start(); err != nil {
		logger.With(zap.Error(err)).Fatal("initial draw failed")
	}

	runErr := loop.Run(gctx)
	cancel()
	waitErr := g.Wait()

	if runErr != nil {
		logger.With(zap.Error(runErr)).Fatal("control loop failed")
	}
	// a press racing the shutdown finds the loop gone, that is not a failure
	if waitErr != nil && !errors.Is(waitErr, event.ErrReceiverGone) {
		logger.With(zap.Error(waitErr)).Fatal("input failed")
	}

	logger.With(zap.Int64("frames", loop.Frames())).Info("exited")
}

func openPanel(logger *zap.Logger) (proto.Control, error) {
	switch {
	case *panel == "virtual":
		var opts []virtual.Option
		if *snapshots != "" {
			fs, err := virtual.NewDirFs(*snapshots)
			if err != nil {
				return nil, err
			}
			opts = append(opts, virtual.WithSnapshots(fs, *scale))
		}
		return virtual.Mock(logger, opts...), nil
	case strings.Contains(*panel, ":"):
		return remote.New(*panel)
	case *panel != "":
		return nil, fmt.Errorf("unknown panel %q", *panel)
	}

	bus, err := openSPI()
	if err != nil {
		return nil, err
	}

	pins := epd2in7b.Pins{}
	for _, line := range []struct {
		name string
		set  func(gpio.PinIO)
	}{
		{*csPin, func(p gpio.PinIO) { pins.CS = p }},
		{*dcPin, func(p gpio.PinIO) { pins.DC = p }},
		{*rstPin, func(p gpio.PinIO) { pins.RST = p }},
		{*busyPin, func(p gpio.PinIO) { pins.Busy = p }},
	} {
		pin := gpioreg.ByName(line.name)
		if pin == nil {
			return nil, fmt.Errorf("unknown gpio %q", line.name)
		}
		line.set(pin)
	}

	opts := []epd2in7b.Option{epd2in7b.WithBusyTimeout(30 * time.Second)}
	if *debug {
		opts = append(opts, epd2in7b.WithProgress(os.Stderr))
	}

	return epd2in7b.New(bus, pins, logger, opts...)
}

func openSPI() (spi.Conn, error) {
	var freq physic.Frequency
	if err := freq.Set(*speed); err != nil {
		return nil, err
	}

	port, err := spireg.Open(*spiPort)
	if err != nil {
		return nil, err
	}

	return port.Connect(freq, spi.Mode0, 8)
}

// openLines resolves the two button lines either on the host or behind a
// serial bridge, which then runs in g.
func openLines(g *errgroup.Group, ctx context.Context, logger *zap.Logger) (button.Line, button.Line, error) {
	if *buttons == "" {
		var lines []button.Line
		for _, name := range []string{*movePin, *rotatePin} {
			pin := gpioreg.ByName(name)
			if pin == nil {
				return nil, nil, fmt.Errorf("unknown gpio %q", name)
			}
			lines = append(lines, pin)
		}
		return lines[0], lines[1], nil
	}

	port := proto.NewSerial(*buttons)
	if err := port.Open(&proto.Options{BaudRate: 115200, ReadTimeout: 200 * time.Millisecond}); err != nil {
		return nil, nil, err
	}

	bridge := button.NewSerialBridge(port, logger)
	g.Go(func() error {
		defer func() {
			_ = port.Close()
		}()
		return bridge.Run(ctx)
	})

	return bridge.Line(*movePin), bridge.Line(*rotatePin), nil
}
