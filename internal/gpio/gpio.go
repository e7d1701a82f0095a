// internal/gpio/gpio.go

// Package gpio binds the indicator outputs and the chip-select input
// to host pins via periph.io.
package gpio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/hvollan/ledbus/internal/indicator"
)

var hostOnce sync.Once

func initHost() error {
	var err error
	hostOnce.Do(func() {
		_, err = host.Init()
	})
	return err
}

// LEDOutput drives one host pin per indicator. Implements
// indicator.Output.
type LEDOutput struct {
	pins [indicator.Count]gpio.PinIO
	log  *slog.Logger
}

// NewLEDOutput resolves one pin name per indicator, in wire order.
// All pins are driven low (off) on success.
func NewLEDOutput(pinNames [indicator.Count]string, log *slog.Logger) (*LEDOutput, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("gpio: host init: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	o := &LEDOutput{log: log}
	for i, name := range pinNames {
		if name == "" {
			return nil, fmt.Errorf("gpio: no pin configured for %s indicator", indicator.Name(i))
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("gpio: unknown pin %q for %s indicator", name, indicator.Name(i))
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("gpio: configure %q: %w", name, err)
		}
		o.pins[i] = pin
	}
	return o, nil
}

// Write drives one indicator pin. The store treats pin writes as
// atomic and non-blocking, so failures are absorbed here.
func (o *LEDOutput) Write(index int, on bool) {
	if index < 0 || index >= indicator.Count {
		return
	}
	if err := o.pins[index].Out(gpio.Level(on)); err != nil {
		o.log.Warn("indicator pin write failed",
			slog.String("indicator", indicator.Name(index)),
			slog.String("pin", o.pins[index].Name()),
			slog.Any("error", err),
		)
	}
}

// ChipSelect reads the master's transaction line. The line is
// active-low. Implements transfer.ChipSelect.
type ChipSelect struct {
	pin gpio.PinIO
}

// NewChipSelect resolves and configures the chip-select input.
func NewChipSelect(pinName string) (*ChipSelect, error) {
	if pinName == "" {
		return nil, errors.New("gpio: chip-select pin name required")
	}
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("gpio: host init: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("gpio: unknown chip-select pin %q", pinName)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio: configure chip-select %q: %w", pinName, err)
	}
	return &ChipSelect{pin: pin}, nil
}

// Asserted reports whether the master holds the line low.
func (c *ChipSelect) Asserted() bool {
	return c.pin.Read() == gpio.Low
}
