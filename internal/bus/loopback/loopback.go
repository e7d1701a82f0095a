// internal/bus/loopback/loopback.go

// Package loopback provides an in-memory duplex channel connecting a
// master end and a slave end. It models the bus the way the wire does:
// one fixed-length frame travels in each direction per exchange, and
// the master drives the clock. Used by tests and the demo console.
package loopback

import (
	"errors"
	"sync"
	"time"

	"github.com/hvollan/ledbus/internal/command"
	"github.com/hvollan/ledbus/internal/transfer"
)

// ErrTimeout reports that no master exchange arrived within the wait
// budget of a polling-mode exchange.
var ErrTimeout = errors.New("loopback: exchange timed out")

var errMasterGone = errors.New("loopback: injected transport failure")

type result struct {
	frame [command.FrameSize]byte
	err   error
}

type xfer struct {
	frame [command.FrameSize]byte
	reply chan result
}

// Pair is one master/slave link. The slave side satisfies
// transfer.Bus and transfer.ChipSelect; the master side drives
// exchanges with MasterExchange.
type Pair struct {
	requests chan xfer

	mu      sync.Mutex
	armed   bool
	pending int
	inject  error

	events chan transfer.Event
}

// New creates an idle pair.
func New() *Pair {
	return &Pair{
		requests: make(chan xfer, 1),
		events:   make(chan transfer.Event, 1),
	}
}

// Events delivers exactly one Complete or Error event per armed
// exchange, in order.
func (p *Pair) Events() <-chan transfer.Event {
	return p.events
}

// InjectError makes the next exchange fail on both ends. Test hook.
func (p *Pair) InjectError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		err = errMasterGone
	}
	p.inject = err
}

// ArmDuplex arms one non-blocking exchange. The exchange completes
// when the master next calls MasterExchange.
func (p *Pair) ArmDuplex(tx, rx []byte) error {
	p.mu.Lock()
	if p.armed {
		p.mu.Unlock()
		return errors.New("loopback: exchange already in flight")
	}
	p.armed = true
	p.mu.Unlock()

	go func() {
		x := <-p.requests
		p.mu.Lock()
		p.pending--
		fail := p.inject
		p.inject = nil
		p.armed = false
		p.mu.Unlock()

		if fail != nil {
			x.reply <- result{err: fail}
			p.events <- transfer.Event{Kind: transfer.EventError, Err: fail}
			return
		}

		copy(rx, x.frame[:])
		var out result
		copy(out.frame[:], tx)
		x.reply <- out
		p.events <- transfer.Event{Kind: transfer.EventComplete}
	}()
	return nil
}

// ExchangeDuplex performs one blocking exchange, waiting at most
// timeout for the master's frame.
func (p *Pair) ExchangeDuplex(tx, rx []byte, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case x := <-p.requests:
		p.mu.Lock()
		p.pending--
		fail := p.inject
		p.inject = nil
		p.mu.Unlock()

		if fail != nil {
			x.reply <- result{err: fail}
			return fail
		}

		copy(rx, x.frame[:])
		var out result
		copy(out.frame[:], tx)
		x.reply <- out
		return nil

	case <-timer.C:
		return ErrTimeout
	}
}

// Asserted reports whether a master exchange is waiting. This stands
// in for the chip-select line in polling mode.
func (p *Pair) Asserted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending > 0
}

// MasterExchange sends one frame from the master side and returns the
// frame the slave clocked out in the same exchange. frame is padded or
// truncated to FrameSize.
func (p *Pair) MasterExchange(frame []byte) ([]byte, error) {
	x := xfer{reply: make(chan result, 1)}
	copy(x.frame[:], frame)

	p.mu.Lock()
	p.pending++
	p.mu.Unlock()

	p.requests <- x
	res := <-x.reply
	if res.err != nil {
		return nil, res.err
	}
	out := make([]byte, command.FrameSize)
	copy(out, res.frame[:])
	return out, nil
}
