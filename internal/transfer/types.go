// internal/transfer/types.go
package transfer

import "time"

// Bus abstracts the duplex channel operations the manager needs.
// The manager depends on frame geometry only.
type Bus interface {
	// ArmDuplex starts one non-blocking duplex exchange. The bus
	// owns tx and rx until it delivers exactly one Complete or
	// Error event for the exchange.
	ArmDuplex(tx, rx []byte) error

	// ExchangeDuplex performs one blocking duplex exchange with a
	// bounded wait. Used in polling mode only.
	ExchangeDuplex(tx, rx []byte, timeout time.Duration) error
}

// ChipSelect reads the master's transaction line (active-low on the
// wire; Asserted hides the polarity). Polling mode only.
type ChipSelect interface {
	Asserted() bool
}

// State of the exchange lifecycle.
type State uint8

const (
	// StateIdle means no exchange is armed. Not a steady state:
	// it holds only before Initialize and between PollOnce calls.
	StateIdle State = iota
	// StateArmed means one exchange of exactly FrameSize bytes is
	// outstanding on the bus.
	StateArmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	default:
		return "unknown"
	}
}

// EventKind identifies a bus notification.
type EventKind uint8

const (
	// EventComplete reports one finished FrameSize-byte exchange.
	EventComplete EventKind = iota
	// EventError reports a failed exchange (framing, timeout).
	EventError
)

// Event is delivered by the bus exactly once per armed exchange.
type Event struct {
	Kind EventKind
	// Err carries the transport failure for EventError. Informational
	// only: every error is absorbed identically.
	Err error
}
