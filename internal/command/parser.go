// internal/command/parser.go
package command

import "github.com/hvollan/ledbus/internal/indicator"

// Parse decodes one received frame and applies it to the store.
//
// resp is caller-supplied and pre-filled with the caller's default
// reply. Parse overwrites it only when the frame carries a command
// that produces a response of its own:
//
//   - a well-formed set command mutates the store and writes RespOK;
//   - a query writes the STA status line;
//   - a set command with an unknown target or state byte is dropped
//     with resp untouched, as is any unrecognized prefix.
//
// Silent drops are protocol behavior, not an error path: the peer
// sees whatever default the caller staged. Parse never fails, never
// blocks, and allocates nothing beyond a fixed scratch copy.
func Parse(raw []byte, store *indicator.Store, resp []byte) {
	// Scratch copy up to the first newline or NUL, capped at
	// FrameSize-1 bytes. Bytes past the terminator are never read.
	var scratch [FrameSize]byte
	n := 0
	for n < len(raw) && n < FrameSize-1 {
		if raw[n] == '\n' || raw[n] == 0 {
			break
		}
		scratch[n] = raw[n]
		n++
	}
	cmd := scratch[:n]

	switch {
	case hasPrefix(cmd, SetPrefix):
		parseSet(cmd, store, resp)
	case hasPrefix(cmd, QueryPrefix):
		writeStatus(store, resp)
	}
}

func parseSet(cmd []byte, store *indicator.Store, resp []byte) {
	if len(cmd) < len(SetPrefix)+2 {
		// Missing target or state byte: drop.
		return
	}

	on := false
	switch cmd[len(SetPrefix)+1] {
	case '0':
	case '1':
		on = true
	default:
		return
	}

	switch cmd[len(SetPrefix)] {
	case TargetGreen:
		store.Set(indicator.Green, on)
	case TargetOrange:
		store.Set(indicator.Orange, on)
	case TargetRed:
		store.Set(indicator.Red, on)
	case TargetBlue:
		store.Set(indicator.Blue, on)
	case TargetAll:
		store.SetAll(on)
	default:
		return
	}

	setResponse(resp, RespOK)
}

// writeStatus renders "STA:" + one digit per indicator + "\n".
// Pure formatting. No IO.
func writeStatus(store *indicator.Store, resp []byte) {
	var line [len(StatusPrefix) + indicator.Count + 1]byte
	copy(line[:], StatusPrefix)
	for i, on := range store.Snapshot() {
		d := byte('0')
		if on {
			d = '1'
		}
		line[len(StatusPrefix)+i] = d
	}
	line[len(line)-1] = '\n'
	setResponse(resp, string(line[:]))
}

// setResponse replaces the contents of resp with s, zero-padding the
// remainder. Responses are at most FrameSize-1 bytes; anything longer
// is truncated to fit the frame.
func setResponse(resp []byte, s string) {
	for i := range resp {
		resp[i] = 0
	}
	limit := len(resp)
	if limit > FrameSize-1 {
		limit = FrameSize - 1
	}
	if len(s) > limit {
		s = s[:limit]
	}
	copy(resp, s)
}

func hasPrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	return string(b[:len(prefix)]) == prefix
}
