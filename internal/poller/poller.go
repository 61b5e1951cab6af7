// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/modpoll/internal/config"
)

// Client abstracts the Modbus read operations the poller needs. One
// blocking request/response exchange per call.
type Client interface {
	ReadCoils(addr, qty uint16) ([]bool, error)              // FC 1
	ReadDiscreteInputs(addr, qty uint16) ([]bool, error)     // FC 2
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// Poller issues one fixed read geometry against a single slave.
type Poller struct {
	kind     config.RegisterKind
	startRef int
	count    int
	client   Client
}

// New creates a poller with immutable geometry. The config must have
// passed validation; only structural mistakes are rejected here.
func New(cfg *config.Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.StartRef < config.MinStartRef {
		return nil, errors.New("poller: start reference must be 1-based")
	}
	if cfg.Count < config.MinCount {
		return nil, errors.New("poller: count must be positive")
	}
	if !cfg.Kind.IsBit() && cfg.Kind != config.InputRegisters && cfg.Kind != config.HoldingRegisters {
		return nil, errors.New("poller: unsupported register kind")
	}
	return &Poller{
		kind:     cfg.Kind,
		startRef: cfg.StartRef,
		count:    cfg.Count,
		client:   client,
	}, nil
}

// PollOnce performs exactly one poll cycle. All-or-nothing: a failed
// read produces a result carrying only the error.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	addr := uint16(p.startRef - 1)
	qty := uint16(p.count)

	switch p.kind {
	case config.Coils:
		bits, err := p.client.ReadCoils(addr, qty)
		if err != nil {
			res.Err = err
			return res
		}
		res.Values = p.bitValues(bits)

	case config.DiscreteInputs:
		bits, err := p.client.ReadDiscreteInputs(addr, qty)
		if err != nil {
			res.Err = err
			return res
		}
		res.Values = p.bitValues(bits)

	case config.InputRegisters:
		regs, err := p.client.ReadInputRegisters(addr, qty)
		if err != nil {
			res.Err = err
			return res
		}
		res.Values = p.wordValues(regs)

	case config.HoldingRegisters:
		regs, err := p.client.ReadHoldingRegisters(addr, qty)
		if err != nil {
			res.Err = err
			return res
		}
		res.Values = p.wordValues(regs)

	default:
		res.Err = errors.New("poller: unsupported register kind")
	}

	return res
}

func (p *Poller) bitValues(bits []bool) []Value {
	out := make([]Value, len(bits))
	for i, b := range bits {
		v := uint16(0)
		if b {
			v = 1
		}
		out[i] = Value{Ref: p.startRef + i, Raw: v}
	}
	return out
}

func (p *Poller) wordValues(regs []uint16) []Value {
	out := make([]Value, len(regs))
	for i, r := range regs {
		out[i] = Value{Ref: p.startRef + i, Raw: r}
	}
	return out
}
