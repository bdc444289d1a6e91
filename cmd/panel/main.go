package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"inkarrow/pkg/device/epd2in7b"
	"inkarrow/pkg/device/remote"
	"inkarrow/pkg/device/virtual"
	"inkarrow/pkg/proto"
)

var listen = flag.String("listen", ":9123", "listen addr")
var spiPort = flag.String("spi", "", "spi port name, empty for the first one")
var speed = flag.String("speed", "4MHz", "spi clock")
var csPin = flag.String("cs", "GPIO5", "panel chip select line")
var dcPin = flag.String("dc", "GPIO6", "panel data/command line")
var rstPin = flag.String("rst", "GPIO13", "panel reset line")
var busyPin = flag.String("busy", "GPIO19", "panel busy line")
var mock = flag.Bool("virtual", false, "serve a logging mock instead of the panel")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			func() (*zap.Logger, error) {
				return lo.Ternary(*debug, zap.NewDevelopment, zap.NewProduction)()
			},
			func() *http.Server {
				return &http.Server{Addr: *listen}
			},
			newPanel,
		),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}

func newPanel(logger *zap.Logger) (proto.Control, error) {
	if *mock {
		return virtual.Mock(logger), nil
	}

	if _, err := host.Init(); err != nil {
		return nil, err
	}

	var freq physic.Frequency
	if err := freq.Set(*speed); err != nil {
		return nil, err
	}

	port, err := spireg.Open(*spiPort)
	if err != nil {
		return nil, err
	}

	bus, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	var pins epd2in7b.Pins
	for _, line := range []struct {
		name string
		set  func(gpio.PinIO)
	}{
		{*csPin, func(p gpio.PinIO) { pins.CS = p }},
		{*dcPin, func(p gpio.PinIO) { pins.DC = p }},
		{*rstPin, func(p gpio.PinIO) { pins.RST = p }},
		{*busyPin, func(p gpio.PinIO) { pins.Busy = p }},
	} {
		p := gpioreg.ByName(line.name)
		if p == nil {
			return nil, fmt.Errorf("unknown gpio %q", line.name)
		}
		line.set(p)
	}

	return epd2in7b.New(bus, pins, logger, epd2in7b.WithBusyTimeout(30*time.Second))
}
