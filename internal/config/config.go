// internal/config/config.go
package config

type Config struct {
	Slave SlaveConfig `yaml:"slave"`
}

type SlaveConfig struct {
	Transport TransportConfig `yaml:"transport"`
	GPIO      GPIOConfig      `yaml:"gpio"`
}

// ---- TRANSPORT ----

// Transport modes. A deployment picks one, never both: interrupt and
// polling mode drive the same transfer buffers.
const (
	ModeInterrupt = "interrupt"
	ModePoll      = "poll"
)

type TransportConfig struct {
	Mode string `yaml:"mode"`

	// Serial line settings.
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	StopBits int    `yaml:"stop_bits"`
	Parity   string `yaml:"parity"`

	// ReadTimeoutMs bounds a single port read (0 = block forever).
	ReadTimeoutMs int `yaml:"read_timeout_ms"`

	// Polling mode cadence and per-exchange wait budget.
	PollIntervalMs int `yaml:"poll_interval_ms"`
	PollTimeoutMs  int `yaml:"poll_timeout_ms"`
}

// ---- GPIO ----

type GPIOConfig struct {
	Enabled bool `yaml:"enabled"`

	// ChipSelect is the transaction line input, required in polling
	// mode. Active-low.
	ChipSelect string `yaml:"chip_select"`

	LEDs LEDPins `yaml:"leds"`
}

// LEDPins maps each indicator to a host pin name, e.g. "GPIO12".
type LEDPins struct {
	Green  string `yaml:"green"`
	Orange string `yaml:"orange"`
	Red    string `yaml:"red"`
	Blue   string `yaml:"blue"`
}
