// internal/config/validate.go
package config

import (
	"fmt"
)

// Modbus addressing limits.
const (
	MinSlaveID = 1
	MaxSlaveID = 247

	MinStartRef = 1
	MaxStartRef = 65536

	MinCount = 1
	MaxCount = 125
)

// Validate checks configuration correctness before any connection is
// attempted. It performs declarative validation only and MUST NOT
// mutate configuration.
func Validate(cfg *Config) error {
	if _, ok := modeNames[cfg.Mode]; !ok {
		return fmt.Errorf("invalid communication mode %d", int(cfg.Mode))
	}

	if cfg.Host == "" {
		return fmt.Errorf("HOST argument is required")
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.SlaveID < MinSlaveID || cfg.SlaveID > MaxSlaveID {
		return fmt.Errorf("invalid slave address %d", cfg.SlaveID)
	}

	// StartRef is 1-based; rejecting 0 here guarantees the protocol
	// address StartRef-1 is never negative at read time.
	if cfg.StartRef < MinStartRef || cfg.StartRef > MaxStartRef {
		return fmt.Errorf("invalid start reference %d", cfg.StartRef)
	}

	if cfg.Count < MinCount || cfg.Count > MaxCount {
		return fmt.Errorf("invalid data count %d", cfg.Count)
	}

	if _, ok := kindNames[cfg.Kind]; !ok {
		return fmt.Errorf("invalid data type %d", int(cfg.Kind))
	}

	if cfg.PollMs < 0 {
		return fmt.Errorf("invalid poll rate %d", cfg.PollMs)
	}

	if cfg.TimeoutMs <= 0 {
		return fmt.Errorf("invalid timeout %d", cfg.TimeoutMs)
	}

	return nil
}
