// internal/transfer/manager.go
package transfer

import (
	"errors"
	"time"

	"github.com/hvollan/ledbus/internal/command"
	"github.com/hvollan/ledbus/internal/indicator"
)

// DefaultPollTimeout bounds one blocking exchange in polling mode.
const DefaultPollTimeout = 100 * time.Millisecond

// Config is the minimal runtime config the manager needs.
type Config struct {
	// PollTimeout bounds ExchangeDuplex in polling mode.
	// Zero selects DefaultPollTimeout.
	PollTimeout time.Duration
}

// Manager owns the transfer buffer pair and the exchange lifecycle.
//
// Exactly one exchange may be in flight; while it is, nothing outside
// the completion and error handlers touches tx or rx. The handlers run
// to completion in a single consumer context (see Run), so the manager
// carries no locking.
//
// A system uses interrupt mode (Initialize + Run) or polling mode
// (PollOnce), never both: the two drive the same buffers.
type Manager struct {
	bus   Bus
	cs    ChipSelect
	store *indicator.Store

	tx [command.FrameSize]byte
	rx [command.FrameSize]byte

	state       State
	pollTimeout time.Duration
}

// New creates a manager with immutable config. cs may be nil when the
// system runs in interrupt mode.
func New(cfg Config, bus Bus, cs ChipSelect, store *indicator.Store) (*Manager, error) {
	if bus == nil {
		return nil, errors.New("transfer: bus required")
	}
	if store == nil {
		return nil, errors.New("transfer: indicator store required")
	}
	if cfg.PollTimeout < 0 {
		return nil, errors.New("transfer: poll timeout must be >= 0")
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	return &Manager{
		bus:         bus,
		cs:          cs,
		store:       store,
		pollTimeout: cfg.PollTimeout,
	}, nil
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// Initialize clears all indicators and both buffers, stages the
// greeting and arms the first exchange. Called exactly once at
// startup, after the bus itself has been configured.
func (m *Manager) Initialize() error {
	m.store.SetAll(false)
	m.clearBuffers()
	m.stage(command.RespReady)
	return m.arm()
}

// InitializePolling prepares polling mode: indicators off, buffers
// clear, greeting staged. No exchange is armed; the first PollOnce
// call services the first exchange.
func (m *Manager) InitializePolling() {
	m.store.SetAll(false)
	m.clearBuffers()
	m.stage(command.RespReady)
}

// OnTransferComplete handles one finished exchange: parse the received
// frame, restage the response, clear rx and re-arm. No gap: the bus is
// ready for the next exchange before this returns.
//
// The response defaults to RespErr; the parser overwrites it only for
// recognized commands, so unknown prefixes and malformed set
// sub-fields both surface to the master as ERR.
func (m *Manager) OnTransferComplete() error {
	var resp [command.FrameSize]byte
	copy(resp[:], command.RespErr)

	command.Parse(m.rx[:], m.store, resp[:])

	m.tx = resp
	m.rx = [command.FrameSize]byte{}
	return m.arm()
}

// OnTransferError handles a failed exchange: reset both buffers, stage
// ERR and re-arm unconditionally. No retry counter, no backoff; the
// link self-heals by always re-arming.
func (m *Manager) OnTransferError() error {
	m.clearBuffers()
	m.stage(command.RespErr)
	return m.arm()
}

// PollOnce drives one polling-mode cycle. If chip-select is asserted
// it performs one bounded blocking exchange and, on success, the same
// parse-and-restage logic as OnTransferComplete; the next PollOnce
// call is the natural re-arm. A failed exchange stages ERR, matching
// the interrupt error path. Returns whether an exchange took place.
func (m *Manager) PollOnce() bool {
	if m.cs == nil || !m.cs.Asserted() {
		return false
	}

	m.rx = [command.FrameSize]byte{}
	if err := m.bus.ExchangeDuplex(m.tx[:], m.rx[:], m.pollTimeout); err != nil {
		m.clearBuffers()
		m.stage(command.RespErr)
		return true
	}

	var resp [command.FrameSize]byte
	copy(resp[:], command.RespErr)
	command.Parse(m.rx[:], m.store, resp[:])
	m.tx = resp
	m.rx = [command.FrameSize]byte{}
	return true
}

// TxFrame copies the currently staged transmit frame. Test hook.
func (m *Manager) TxFrame() [command.FrameSize]byte {
	return m.tx
}

func (m *Manager) arm() error {
	if err := m.bus.ArmDuplex(m.tx[:], m.rx[:]); err != nil {
		m.state = StateIdle
		return err
	}
	m.state = StateArmed
	return nil
}

func (m *Manager) stage(resp string) {
	m.tx = [command.FrameSize]byte{}
	copy(m.tx[:], resp)
}

func (m *Manager) clearBuffers() {
	m.tx = [command.FrameSize]byte{}
	m.rx = [command.FrameSize]byte{}
}
