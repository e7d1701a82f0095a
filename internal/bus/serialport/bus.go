// internal/bus/serialport/bus.go

// Package serialport carries the fixed-length frame protocol over a
// serial line. One duplex exchange is rendered as: read the master's
// FrameSize-byte frame, then clock out the staged FrameSize-byte
// reply. The staged reply was prepared before the exchange began, so
// the master observes the same one-frame response lag as on a
// synchronous bus.
package serialport

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goburrow/serial"

	"github.com/hvollan/ledbus/internal/command"
	"github.com/hvollan/ledbus/internal/transfer"
)

// Config is minimal transport config.
type Config struct {
	Address  string // device path, e.g. /dev/ttyUSB0
	BaudRate int
	DataBits int
	StopBits int
	Parity   string // "N", "E" or "O"

	// ReadTimeout bounds a single port read. Zero blocks forever.
	// Interrupt mode treats timeouts as idle wakeups and keeps the
	// exchange armed; polling mode budgets them against the caller's
	// wait.
	ReadTimeout time.Duration
}

// Bus implements transfer.Bus on a serial port.
type Bus struct {
	port   serial.Port
	cfg    Config
	events chan transfer.Event

	armed chan struct{} // capacity 1; holding the token = exchange in flight
}

// Open opens the port and returns a connected bus.
func Open(cfg Config) (*Bus, error) {
	if cfg.Address == "" {
		return nil, errors.New("serialport: address required")
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Address, err)
	}

	b := &Bus{
		port:   port,
		cfg:    cfg,
		events: make(chan transfer.Event, 1),
		armed:  make(chan struct{}, 1),
	}
	b.armed <- struct{}{}
	return b, nil
}

// Close closes the underlying port.
func (b *Bus) Close() error {
	return b.port.Close()
}

// Events delivers exactly one Complete or Error event per armed
// exchange.
func (b *Bus) Events() <-chan transfer.Event {
	return b.events
}

// ArmDuplex starts one background exchange. tx and rx belong to the
// bus until the matching event is delivered.
func (b *Bus) ArmDuplex(tx, rx []byte) error {
	select {
	case <-b.armed:
	default:
		return errors.New("serialport: exchange already in flight")
	}

	go func() {
		err := b.exchange(tx, rx, 0)
		b.armed <- struct{}{}
		if err != nil {
			b.events <- transfer.Event{Kind: transfer.EventError, Err: err}
			return
		}
		b.events <- transfer.Event{Kind: transfer.EventComplete}
	}()
	return nil
}

// ExchangeDuplex performs one blocking exchange bounded by timeout.
func (b *Bus) ExchangeDuplex(tx, rx []byte, timeout time.Duration) error {
	select {
	case <-b.armed:
	default:
		return errors.New("serialport: exchange already in flight")
	}
	err := b.exchange(tx, rx, timeout)
	b.armed <- struct{}{}
	return err
}

// exchange reads one full frame from the master, then writes the
// staged reply. budget 0 means wait indefinitely: a hung master
// simply keeps the exchange outstanding.
func (b *Bus) exchange(tx, rx []byte, budget time.Duration) error {
	deadline := time.Time{}
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}

	if err := b.readFrame(rx, deadline); err != nil {
		return err
	}
	return b.writeFrame(tx)
}

func (b *Bus) readFrame(rx []byte, deadline time.Time) error {
	got := 0
	for got < command.FrameSize {
		n, err := b.port.Read(rx[got:command.FrameSize])
		got += n
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				// Idle wakeup or mid-frame stall: the master owns
				// the clock, keep waiting unless a budget expired.
				if deadline.IsZero() || time.Now().Before(deadline) {
					continue
				}
				return fmt.Errorf("serialport: frame read timed out after %d bytes: %w", got, err)
			}
			return fmt.Errorf("serialport: frame read failed after %d bytes: %w", got, err)
		}
	}
	return nil
}

func (b *Bus) writeFrame(tx []byte) error {
	sent := 0
	for sent < command.FrameSize {
		n, err := b.port.Write(tx[sent:command.FrameSize])
		sent += n
		if err != nil {
			return fmt.Errorf("serialport: frame write failed after %d bytes: %w", sent, err)
		}
	}
	return nil
}

// LogConfig emits the effective port settings once at startup.
func (b *Bus) LogConfig(log *slog.Logger) {
	log.Info("serial port open",
		slog.String("address", b.cfg.Address),
		slog.Int("baud", b.cfg.BaudRate),
		slog.String("framing", fmt.Sprintf("%d%s%d", b.cfg.DataBits, b.cfg.Parity, b.cfg.StopBits)),
	)
}
