// internal/command/constants.go
package command

// Wire protocol constants.
// These values define the protocol and MUST NOT be configurable.

// FrameSize is the fixed length of one duplex exchange in bytes.
// Every frame on the bus, in either direction, is exactly this long;
// unused bytes are zero.
const FrameSize = 32

// ---- MASTER -> SLAVE ----

// SetPrefix introduces a set command: "LED:<C><S>".
const SetPrefix = "LED:"

// QueryPrefix is the full query command: "GET:LED".
const QueryPrefix = "GET:LED"

// Target selector bytes for set commands.
const (
	TargetGreen  = 'G'
	TargetOrange = 'O'
	TargetRed    = 'R'
	TargetBlue   = 'B'
	TargetAll    = 'A'
)

// ---- SLAVE -> MASTER ----

// RespReady is staged once at startup and returned on the first exchange.
const RespReady = "RDY\n"

// RespOK acknowledges a recognized set command.
const RespOK = "OK\n"

// RespErr reports an unrecognized command or a transport error.
const RespErr = "ERR\n"

// StatusPrefix introduces a query response: "STA:" followed by one
// ASCII digit per indicator in wire order, then a newline.
const StatusPrefix = "STA:"
