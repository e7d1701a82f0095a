// internal/transfer/runner.go
package transfer

import "context"

// Run consumes bus events until the context ends or the event channel
// closes. Single consumer: this loop is the only place completion and
// error handling execute, which is what makes the buffer one-owner
// rule hold without locks.
//
// Each event re-arms the next exchange before the loop blocks again.
// An arm failure is returned and stops the loop; it means the bus
// itself is gone, not a protocol error.
func (m *Manager) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			var err error
			switch ev.Kind {
			case EventComplete:
				err = m.OnTransferComplete()
			case EventError:
				err = m.OnTransferError()
			}
			if err != nil {
				return err
			}
		}
	}
}
