// internal/master/client.go

// Package master speaks the LED bus protocol from the master end of
// the link. The slave's reply to frame N is clocked out during frame
// N+1, so every command is followed by an empty fetch exchange that
// collects the response.
package master

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/hvollan/ledbus/internal/command"
	"github.com/hvollan/ledbus/internal/indicator"
)

// Transport is the exact contract the client uses: one fixed-length
// duplex exchange per call.
type Transport interface {
	Exchange(frame []byte) ([]byte, error)
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(frame []byte) ([]byte, error)

// Exchange implements Transport.
func (f TransportFunc) Exchange(frame []byte) ([]byte, error) {
	return f(frame)
}

// Client issues commands and decodes replies.
type Client struct {
	tr Transport
}

// NewClient creates a client over an already-open transport.
func NewClient(tr Transport) (*Client, error) {
	if tr == nil {
		return nil, errors.New("master: transport required")
	}
	return &Client{tr: tr}, nil
}

// Raw sends one command line and returns the slave's reply to it,
// trimmed of frame padding and the line terminator. The reply frame
// collected during the command exchange itself belongs to the
// previous command and is discarded.
func (c *Client) Raw(line string) (string, error) {
	frame := make([]byte, command.FrameSize)
	n := copy(frame[:command.FrameSize-1], line)
	if n < len(frame) && !strings.HasSuffix(line, "\n") {
		frame[n] = '\n'
	}

	if _, err := c.tr.Exchange(frame); err != nil {
		return "", fmt.Errorf("master: command exchange: %w", err)
	}

	// Empty fetch exchange: unrecognized on the slave side, its only
	// purpose is clocking the reply out.
	reply, err := c.tr.Exchange(make([]byte, command.FrameSize))
	if err != nil {
		return "", fmt.Errorf("master: fetch exchange: %w", err)
	}

	if i := bytes.IndexByte(reply, 0); i >= 0 {
		reply = reply[:i]
	}
	return strings.TrimSuffix(string(reply), "\n"), nil
}

// targetBytes in indicator index order.
var targetBytes = [indicator.Count]byte{
	command.TargetGreen,
	command.TargetOrange,
	command.TargetRed,
	command.TargetBlue,
}

// Set switches one indicator and waits for the acknowledgement.
func (c *Client) Set(index int, on bool) error {
	if index < 0 || index >= indicator.Count {
		return fmt.Errorf("master: indicator index %d out of range", index)
	}
	return c.set(targetBytes[index], on)
}

// SetAll switches all four indicators.
func (c *Client) SetAll(on bool) error {
	return c.set(command.TargetAll, on)
}

func (c *Client) set(target byte, on bool) error {
	state := byte('0')
	if on {
		state = '1'
	}
	reply, err := c.Raw(command.SetPrefix + string([]byte{target, state}))
	if err != nil {
		return err
	}
	if reply != strings.TrimSuffix(command.RespOK, "\n") {
		return fmt.Errorf("master: set rejected: %q", reply)
	}
	return nil
}

// Query reads all indicator states in wire order.
func (c *Client) Query() ([indicator.Count]bool, error) {
	var states [indicator.Count]bool

	reply, err := c.Raw(command.QueryPrefix)
	if err != nil {
		return states, err
	}
	if !strings.HasPrefix(reply, command.StatusPrefix) {
		return states, fmt.Errorf("master: unexpected status reply: %q", reply)
	}
	digits := reply[len(command.StatusPrefix):]
	if len(digits) != indicator.Count {
		return states, fmt.Errorf("master: malformed status reply: %q", reply)
	}
	for i := 0; i < indicator.Count; i++ {
		switch digits[i] {
		case '0':
		case '1':
			states[i] = true
		default:
			return states, fmt.Errorf("master: malformed status digit in %q", reply)
		}
	}
	return states, nil
}
