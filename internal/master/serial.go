// internal/master/serial.go
package master

import (
	"fmt"
	"time"

	"github.com/goburrow/serial"

	"github.com/hvollan/ledbus/internal/command"
)

// SerialTransport is the master end of the link on a serial line.
// Mirror image of the slave's serialport bus: write the command
// frame, then read the frame the slave clocks back.
type SerialTransport struct {
	port serial.Port
}

// Dial opens a serial transport with 8N1 framing. timeout bounds the
// read half of each exchange.
func Dial(address string, baud int, timeout time.Duration) (*SerialTransport, error) {
	port, err := serial.Open(&serial.Config{
		Address:  address,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("master: open %s: %w", address, err)
	}
	return &SerialTransport{port: port}, nil
}

// Close closes the underlying port.
func (t *SerialTransport) Close() error {
	return t.port.Close()
}

// Exchange implements Transport.
func (t *SerialTransport) Exchange(frame []byte) ([]byte, error) {
	sent := 0
	for sent < command.FrameSize {
		n, err := t.port.Write(frame[sent:command.FrameSize])
		sent += n
		if err != nil {
			return nil, fmt.Errorf("master: frame write failed after %d bytes: %w", sent, err)
		}
	}

	reply := make([]byte, command.FrameSize)
	got := 0
	for got < command.FrameSize {
		n, err := t.port.Read(reply[got:])
		got += n
		if err != nil {
			return nil, fmt.Errorf("master: frame read failed after %d bytes: %w", got, err)
		}
	}
	return reply, nil
}
