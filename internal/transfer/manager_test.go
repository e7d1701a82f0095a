// internal/transfer/manager_test.go
package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hvollan/ledbus/internal/command"
	"github.com/hvollan/ledbus/internal/indicator"
)

// fakeBus records arming calls and lets tests inject the master's
// frame for polling exchanges.
type fakeBus struct {
	armCalls int
	tx, rx   []byte // buffers handed over by the last ArmDuplex
	armErr   error

	exchangeErr   error
	masterFrame   []byte // copied into rx by ExchangeDuplex
	exchangeCalls int
}

func (f *fakeBus) ArmDuplex(tx, rx []byte) error {
	if f.armErr != nil {
		return f.armErr
	}
	f.armCalls++
	f.tx, f.rx = tx, rx
	return nil
}

func (f *fakeBus) ExchangeDuplex(tx, rx []byte, timeout time.Duration) error {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return f.exchangeErr
	}
	copy(rx, f.masterFrame)
	return nil
}

type fakeChipSelect struct {
	asserted bool
}

func (f *fakeChipSelect) Asserted() bool { return f.asserted }

func staged(tx []byte, resp string) bool {
	if string(tx[:len(resp)]) != resp {
		return false
	}
	for _, b := range tx[len(resp):] {
		if b != 0 {
			return false
		}
	}
	return true
}

func newTestManager(t *testing.T, bus Bus, cs ChipSelect) (*Manager, *indicator.Store) {
	t.Helper()
	store := indicator.NewStore(nil)
	mgr, err := New(Config{}, bus, cs, store)
	require.NoError(t, err)
	return mgr, store
}

func TestNew_Validation(t *testing.T) {
	store := indicator.NewStore(nil)

	_, err := New(Config{}, nil, nil, store)
	require.Error(t, err)

	_, err = New(Config{}, &fakeBus{}, nil, nil)
	require.Error(t, err)

	_, err = New(Config{PollTimeout: -time.Second}, &fakeBus{}, nil, store)
	require.Error(t, err)

	mgr, err := New(Config{}, &fakeBus{}, nil, store)
	require.NoError(t, err)
	require.Equal(t, StateIdle, mgr.State())
}

func TestInitialize(t *testing.T) {
	bus := &fakeBus{}
	mgr, store := newTestManager(t, bus, nil)
	store.SetAll(true)

	require.NoError(t, mgr.Initialize())

	require.Equal(t, StateArmed, mgr.State())
	require.Equal(t, 1, bus.armCalls)
	require.Len(t, bus.tx, command.FrameSize)
	require.Len(t, bus.rx, command.FrameSize)
	require.True(t, staged(bus.tx, command.RespReady), "greeting must be staged")
	for i := 0; i < indicator.Count; i++ {
		require.False(t, store.Get(i), "indicator %d must start off", i)
	}
}

func TestInitialize_ArmFailure(t *testing.T) {
	bus := &fakeBus{armErr: errors.New("bus gone")}
	mgr, _ := newTestManager(t, bus, nil)

	require.Error(t, mgr.Initialize())
	require.Equal(t, StateIdle, mgr.State())
}

func TestOnTransferComplete_SetCommand(t *testing.T) {
	bus := &fakeBus{}
	mgr, store := newTestManager(t, bus, nil)
	require.NoError(t, mgr.Initialize())

	copy(bus.rx, "LED:G1\n")
	require.NoError(t, mgr.OnTransferComplete())

	require.True(t, store.Get(indicator.Green))
	require.True(t, staged(bus.tx, command.RespOK))
	require.Equal(t, 2, bus.armCalls, "handler must re-arm")
	for i, b := range bus.rx {
		require.Zero(t, b, "rx byte %d must be cleared", i)
	}
}

func TestOnTransferComplete_UnrecognizedDefaultsToErr(t *testing.T) {
	bus := &fakeBus{}
	mgr, _ := newTestManager(t, bus, nil)
	require.NoError(t, mgr.Initialize())

	copy(bus.rx, "PING\n")
	require.NoError(t, mgr.OnTransferComplete())

	require.True(t, staged(bus.tx, command.RespErr))
}

func TestOnTransferComplete_MalformedSubFieldDefaultsToErr(t *testing.T) {
	bus := &fakeBus{}
	mgr, store := newTestManager(t, bus, nil)
	require.NoError(t, mgr.Initialize())

	copy(bus.rx, "LED:G9\n")
	require.NoError(t, mgr.OnTransferComplete())

	// Observably identical to an unknown prefix.
	require.True(t, staged(bus.tx, command.RespErr))
	require.False(t, store.Get(indicator.Green))
}

func TestOnTransferComplete_Query(t *testing.T) {
	bus := &fakeBus{}
	mgr, store := newTestManager(t, bus, nil)
	require.NoError(t, mgr.Initialize())
	store.Set(indicator.Orange, true)
	store.Set(indicator.Blue, true)

	copy(bus.rx, "GET:LED\n")
	require.NoError(t, mgr.OnTransferComplete())

	require.True(t, staged(bus.tx, "STA:0101\n"))
}

func TestOnTransferError(t *testing.T) {
	bus := &fakeBus{}
	mgr, _ := newTestManager(t, bus, nil)
	require.NoError(t, mgr.Initialize())

	copy(bus.rx, "LED:G1\n") // garbage from the failed exchange
	require.NoError(t, mgr.OnTransferError())

	require.True(t, staged(bus.tx, command.RespErr))
	require.Equal(t, 2, bus.armCalls, "error handler must re-arm")
	require.Equal(t, StateArmed, mgr.State())
	for i, b := range bus.rx {
		require.Zero(t, b, "rx byte %d must be cleared", i)
	}
}

func TestRun_DispatchesEvents(t *testing.T) {
	bus := &fakeBus{}
	mgr, store := newTestManager(t, bus, nil)
	require.NoError(t, mgr.Initialize())

	events := make(chan Event)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- mgr.Run(ctx, events) }()

	copy(bus.rx, "LED:R1\n")
	events <- Event{Kind: EventComplete}
	events <- Event{Kind: EventError, Err: errors.New("framing")}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	require.True(t, store.Get(indicator.Red))
	require.True(t, staged(bus.tx, command.RespErr))
	require.Equal(t, 3, bus.armCalls)
}

func TestRun_StopsOnClosedChannel(t *testing.T) {
	bus := &fakeBus{}
	mgr, _ := newTestManager(t, bus, nil)

	events := make(chan Event)
	close(events)
	require.NoError(t, mgr.Run(context.Background(), events))
}

func TestPollOnce_ChipSelectDeasserted(t *testing.T) {
	bus := &fakeBus{}
	cs := &fakeChipSelect{asserted: false}
	mgr, _ := newTestManager(t, bus, cs)
	mgr.InitializePolling()

	require.False(t, mgr.PollOnce())
	require.Zero(t, bus.exchangeCalls)
}

func TestPollOnce_Exchange(t *testing.T) {
	bus := &fakeBus{masterFrame: []byte("LED:B1\n")}
	cs := &fakeChipSelect{asserted: true}
	mgr, store := newTestManager(t, bus, cs)
	mgr.InitializePolling()

	tx := mgr.TxFrame()
	require.True(t, staged(tx[:], command.RespReady))

	require.True(t, mgr.PollOnce())
	require.Equal(t, 1, bus.exchangeCalls)
	require.True(t, store.Get(indicator.Blue))

	tx = mgr.TxFrame()
	require.True(t, staged(tx[:], command.RespOK), "next poll clocks out the reply")
}

func TestPollOnce_FailureStagesErr(t *testing.T) {
	bus := &fakeBus{exchangeErr: errors.New("timeout")}
	cs := &fakeChipSelect{asserted: true}
	mgr, _ := newTestManager(t, bus, cs)
	mgr.InitializePolling()

	require.True(t, mgr.PollOnce())

	tx := mgr.TxFrame()
	require.True(t, staged(tx[:], command.RespErr))
}

func TestPollOnce_NoChipSelect(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeBus{}, nil)
	mgr.InitializePolling()
	require.False(t, mgr.PollOnce())
}
