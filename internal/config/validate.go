// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	t := cfg.Slave.Transport

	switch t.Mode {
	case ModeInterrupt, ModePoll:
	case "":
		return fmt.Errorf("transport: mode is required (%q or %q)", ModeInterrupt, ModePoll)
	default:
		return fmt.Errorf("transport: unknown mode %q", t.Mode)
	}

	if t.Port == "" {
		return fmt.Errorf("transport: port is required")
	}
	if t.BaudRate < 0 {
		return fmt.Errorf("transport: baud_rate must be >= 0 (0 selects the default)")
	}
	if t.DataBits != 0 && t.DataBits != 5 && t.DataBits != 6 && t.DataBits != 7 && t.DataBits != 8 {
		return fmt.Errorf("transport: data_bits must be 5..8")
	}
	if t.StopBits != 0 && t.StopBits != 1 && t.StopBits != 2 {
		return fmt.Errorf("transport: stop_bits must be 1 or 2")
	}
	switch t.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("transport: parity must be N, E or O, got %q", t.Parity)
	}
	if t.ReadTimeoutMs < 0 {
		return fmt.Errorf("transport: read_timeout_ms must be >= 0")
	}
	if t.PollIntervalMs < 0 {
		return fmt.Errorf("transport: poll_interval_ms must be >= 0")
	}
	if t.PollTimeoutMs < 0 {
		return fmt.Errorf("transport: poll_timeout_ms must be >= 0")
	}

	g := cfg.Slave.GPIO

	if t.Mode == ModePoll && g.Enabled && g.ChipSelect == "" {
		return fmt.Errorf("gpio: chip_select is required in %s mode", ModePoll)
	}
	if t.Mode == ModePoll && !g.Enabled {
		return fmt.Errorf("gpio: polling mode needs gpio enabled for the chip-select line")
	}

	if g.Enabled {
		pins := map[string]string{
			"green":  g.LEDs.Green,
			"orange": g.LEDs.Orange,
			"red":    g.LEDs.Red,
			"blue":   g.LEDs.Blue,
		}
		seen := make(map[string]string)
		for name, pin := range pins {
			if pin == "" {
				return fmt.Errorf("gpio: leds.%s pin is required when gpio is enabled", name)
			}
			if prev, dup := seen[pin]; dup {
				return fmt.Errorf("gpio: pin %q assigned to both %s and %s", pin, prev, name)
			}
			seen[pin] = name
		}
		if g.ChipSelect != "" {
			if prev, dup := seen[g.ChipSelect]; dup {
				return fmt.Errorf("gpio: chip_select pin %q collides with leds.%s", g.ChipSelect, prev)
			}
		}
	}

	return nil
}
