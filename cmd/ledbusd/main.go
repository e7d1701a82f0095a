// cmd/ledbusd/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hvollan/ledbus/internal/bus/serialport"
	"github.com/hvollan/ledbus/internal/config"
	"github.com/hvollan/ledbus/internal/gpio"
	"github.com/hvollan/ledbus/internal/indicator"
	"github.com/hvollan/ledbus/internal/transfer"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		log.Error("usage: ledbusd <config.yaml>")
		os.Exit(2)
	}
	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		log.Error("config validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && ctx.Err() == nil {
		log.Error("slave engine stopped", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	t := cfg.Slave.Transport

	// ---- indicator store (+ physical pins) ----

	var out indicator.Output
	if cfg.Slave.GPIO.Enabled {
		leds := cfg.Slave.GPIO.LEDs
		o, err := gpio.NewLEDOutput([indicator.Count]string{
			leds.Green, leds.Orange, leds.Red, leds.Blue,
		}, log)
		if err != nil {
			return err
		}
		out = o
	} else {
		log.Warn("gpio disabled, indicator writes are state-only")
	}
	store := indicator.NewStore(out)

	// ---- bus ----

	bus, err := serialport.Open(serialport.Config{
		Address:     t.Port,
		BaudRate:    t.BaudRate,
		DataBits:    t.DataBits,
		StopBits:    t.StopBits,
		Parity:      t.Parity,
		ReadTimeout: time.Duration(t.ReadTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer bus.Close()
	bus.LogConfig(log)

	// ---- chip-select (polling mode only) ----

	var cs transfer.ChipSelect
	if t.Mode == config.ModePoll {
		c, err := gpio.NewChipSelect(cfg.Slave.GPIO.ChipSelect)
		if err != nil {
			return err
		}
		cs = c
	}

	// ---- transfer manager ----

	mgr, err := transfer.New(transfer.Config{
		PollTimeout: time.Duration(t.PollTimeoutMs) * time.Millisecond,
	}, bus, cs, store)
	if err != nil {
		return err
	}

	switch t.Mode {
	case config.ModeInterrupt:
		log.Info("starting in interrupt mode")
		if err := mgr.Initialize(); err != nil {
			return err
		}
		return mgr.Run(ctx, bus.Events())

	case config.ModePoll:
		log.Info("starting in polling mode",
			slog.Int("interval_ms", t.PollIntervalMs))
		mgr.InitializePolling()
		return runPolling(ctx, mgr, time.Duration(t.PollIntervalMs)*time.Millisecond)

	default:
		// Unreachable after Validate.
		return nil
	}
}

// runPolling drives PollOnce on a fixed cadence. The next tick is the
// natural re-arm; there is nothing to do between exchanges.
func runPolling(ctx context.Context, mgr *transfer.Manager, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			mgr.PollOnce()
		}
	}
}
