// internal/config/normalize.go
package config

// Serial line defaults: 115200 8N1, matching the reference wiring.
const (
	DefaultBaudRate = 115200
	DefaultDataBits = 8
	DefaultStopBits = 1
	DefaultParity   = "N"

	// DefaultPollIntervalMs is the polling-mode cadence.
	DefaultPollIntervalMs = 10
	// DefaultPollTimeoutMs bounds one polling-mode exchange.
	DefaultPollTimeoutMs = 100
	// DefaultPollReadTimeoutMs keeps single port reads short in
	// polling mode so the exchange wait budget can expire.
	DefaultPollReadTimeoutMs = 10
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Slave.Transport

	if t.BaudRate == 0 {
		t.BaudRate = DefaultBaudRate
	}
	if t.DataBits == 0 {
		t.DataBits = DefaultDataBits
	}
	if t.StopBits == 0 {
		t.StopBits = DefaultStopBits
	}
	if t.Parity == "" {
		t.Parity = DefaultParity
	}

	if t.Mode == ModePoll {
		if t.PollIntervalMs == 0 {
			t.PollIntervalMs = DefaultPollIntervalMs
		}
		if t.PollTimeoutMs == 0 {
			t.PollTimeoutMs = DefaultPollTimeoutMs
		}
		if t.ReadTimeoutMs == 0 {
			t.ReadTimeoutMs = DefaultPollReadTimeoutMs
		}
	}
}
