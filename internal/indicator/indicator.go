// internal/indicator/indicator.go
package indicator

// Count is the fixed number of indicators on the slave.
// The wire protocol encodes exactly this many state digits.
const Count = 4

// Indicator indices in wire order.
const (
	Green = iota
	Orange
	Red
	Blue
)

var names = [Count]string{"green", "orange", "red", "blue"}

// Name returns the lowercase indicator name, or "" for an
// out-of-range index.
func Name(index int) string {
	if index < 0 || index >= Count {
		return ""
	}
	return names[index]
}

// Output drives the physical pin behind one indicator.
// The write is assumed atomic and non-blocking; implementations
// absorb their own platform errors.
type Output interface {
	Write(index int, on bool)
}

// Store holds the on/off state of the four indicators.
//
// It is not safe for parallel callers. All mutation happens inside
// the transfer manager's single active-transfer context, so the
// store carries no locking of its own.
type Store struct {
	states [Count]bool
	out    Output
}

// NewStore creates a store with all indicators off.
// out may be nil when no physical output is attached.
func NewStore(out Output) *Store {
	return &Store{out: out}
}

// Set sets one indicator and issues the physical write.
// An out-of-range index is a silent no-op: the protocol has no
// error signaling for this case.
func (s *Store) Set(index int, on bool) {
	if index < 0 || index >= Count {
		return
	}
	s.states[index] = on
	if s.out != nil {
		s.out.Write(index, on)
	}
}

// SetAll applies Set to all indicators in index order.
func (s *Store) SetAll(on bool) {
	for i := 0; i < Count; i++ {
		s.Set(i, on)
	}
}

// Get returns one indicator state. Out-of-range reads report off.
func (s *Store) Get(index int) bool {
	if index < 0 || index >= Count {
		return false
	}
	return s.states[index]
}

// Snapshot copies the current states in wire order.
func (s *Store) Snapshot() [Count]bool {
	return s.states
}
