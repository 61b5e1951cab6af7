// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects the Modbus transport backend.
type Mode int

const (
	ModeTCP Mode = iota
	ModeUDP
	ModeRTU
	ModeASCII
)

var modeNames = map[Mode]string{
	ModeTCP:   "Modbus TCP/IP",
	ModeUDP:   "Modbus UDP/IP",
	ModeRTU:   "Modbus RTU",
	ModeASCII: "Modbus ASCII",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a -m option value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "tcp":
		return ModeTCP, nil
	case "udp":
		return ModeUDP, nil
	case "rtu":
		return ModeRTU, nil
	case "ascii":
		return ModeASCII, nil
	}
	return 0, fmt.Errorf("invalid communication mode %q", s)
}

// UnmarshalYAML decodes a mode from its -m spelling ("tcp", "udp", ...).
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// RegisterKind is one of the four addressable Modbus data classes.
// Values match the -t option (1..4).
type RegisterKind int

const (
	Coils RegisterKind = iota + 1
	DiscreteInputs
	InputRegisters
	HoldingRegisters
)

var kindNames = map[RegisterKind]string{
	Coils:            "Coils",
	DiscreteInputs:   "Discrete input",
	InputRegisters:   "16-bit input register",
	HoldingRegisters: "16-bit holding register",
}

func (k RegisterKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("RegisterKind(%d)", int(k))
}

// IsBit reports whether the kind decodes as single bits rather than
// 16-bit words.
func (k RegisterKind) IsBit() bool {
	return k == Coils || k == DiscreteInputs
}

// UnmarshalYAML decodes a register kind from its -t numbering.
func (k *RegisterKind) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err != nil {
		return err
	}
	kind := RegisterKind(n)
	if _, ok := kindNames[kind]; !ok {
		return fmt.Errorf("invalid data type %d", n)
	}
	*k = kind
	return nil
}

// ---- POLL REQUEST ----

// Config describes one polling session: what to read, from whom, and
// how often. Immutable once validated.
type Config struct {
	Mode Mode   `yaml:"mode"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	SlaveID  int          `yaml:"slave_id"`
	StartRef int          `yaml:"start_reference"` // 1-based user-facing reference
	Count    int          `yaml:"count"`
	Kind     RegisterKind `yaml:"register_kind"`

	PollMs    int `yaml:"poll_interval_ms"`
	TimeoutMs int `yaml:"timeout_ms"`
}

// Default returns the option defaults of the original utility.
func Default() Config {
	return Config{
		Mode:      ModeTCP,
		Port:      502,
		SlaveID:   1,
		StartRef:  100,
		Count:     1,
		Kind:      InputRegisters,
		PollMs:    1000,
		TimeoutMs: 3000,
	}
}

// Load reads a YAML defaults file over Default(). Flags still win;
// merging is the caller's concern.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Interval is the inter-cycle sleep.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// Timeout bounds one request/response exchange.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Endpoint is the dial target for the TCP backend.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Address is the zero-based protocol address for StartRef. The 1-based
// to 0-based shift happens here and nowhere else.
func (c *Config) Address() uint16 {
	return uint16(c.StartRef - 1)
}
