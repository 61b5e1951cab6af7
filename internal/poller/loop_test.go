// internal/poller/loop_test.go
package poller

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/modpoll/internal/config"
	"github.com/tamzrod/modpoll/internal/signals"
)

// scriptClient serves queued holding-register responses, then fails
// every further read with err.
type scriptClient struct {
	responses [][]uint16
	err       error

	calls    int
	lastAddr uint16
	lastQty  uint16
}

func (c *scriptClient) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	c.lastAddr, c.lastQty = addr, qty
	n := c.calls
	c.calls++
	if n < len(c.responses) {
		return c.responses[n], nil
	}
	return nil, c.err
}

func (c *scriptClient) ReadCoils(addr, qty uint16) ([]bool, error) {
	return nil, errors.New("unexpected coil read")
}

func (c *scriptClient) ReadDiscreteInputs(addr, qty uint16) ([]bool, error) {
	return nil, errors.New("unexpected discrete input read")
}

func (c *scriptClient) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	return nil, errors.New("unexpected input register read")
}

type fakeSurface struct {
	rows      map[int]string
	rebuilds  int
	flushes   int
	infoDraws int
	closes    int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{rows: map[int]string{}}
}

func (s *fakeSurface) DrawInfo([]InfoField) { s.infoDraws++ }

func (s *fakeSurface) DrawDataRow(row int, text string) { s.rows[row] = text }

func (s *fakeSurface) Flush() { s.flushes++ }

func (s *fakeSurface) Rebuild(Layout) { s.rebuilds++ }

func (s *fakeSurface) Size() (int, int) { return 80, 24 }

func (s *fakeSurface) Close() { s.closes++ }

func newLoop(t *testing.T, client Client, interval time.Duration) (*Loop, *fakeSurface, *signals.Controller) {
	t.Helper()

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Kind = config.HoldingRegisters
	cfg.StartRef = 100
	cfg.Count = 3

	p, err := New(&cfg, client)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	surface := newFakeSurface()
	ctrl := signals.New()
	return NewLoop(p, surface, ctrl, interval, []InfoField{{Label: "Slave", Value: "1"}}), surface, ctrl
}

func TestRun_RendersThenReadFailureIsFatal(t *testing.T) {
	readErr := errors.New("connection reset")
	client := &scriptClient{
		responses: [][]uint16{{10, 20, 30}},
		err:       readErr,
	}

	loop, surface, _ := newLoop(t, client, 0)

	if err := loop.Run(); !errors.Is(err, readErr) {
		t.Fatalf("Run()=%v want %v", err, readErr)
	}

	// data rows start below the border, header and spacer
	want := map[int]string{
		3: "[100]: 10",
		4: "[101]: 20",
		5: "[102]: 30",
	}
	for row, text := range want {
		if surface.rows[row] != text {
			t.Fatalf("row %d: got %q want %q", row, surface.rows[row], text)
		}
	}

	if client.lastAddr != 99 || client.lastQty != 3 {
		t.Fatalf("read geometry: addr=%d qty=%d", client.lastAddr, client.lastQty)
	}
	if surface.infoDraws == 0 {
		t.Fatalf("info panel never drawn")
	}
}

func TestRun_BlanksStaleRows(t *testing.T) {
	client := &scriptClient{
		responses: [][]uint16{{10, 20, 30}, {7}},
		err:       errors.New("done"),
	}

	loop, surface, _ := newLoop(t, client, 0)

	if err := loop.Run(); err == nil {
		t.Fatalf("expected the scripted read error")
	}

	if surface.rows[3] != "[100]: 7" {
		t.Fatalf("row 3: got %q", surface.rows[3])
	}
	// rows from the larger first cycle must not survive
	if surface.rows[4] != "" || surface.rows[5] != "" {
		t.Fatalf("ghost rows left behind: 4=%q 5=%q", surface.rows[4], surface.rows[5])
	}
}

func TestRun_TerminateBeforeFirstPoll(t *testing.T) {
	client := &scriptClient{err: errors.New("unused")}
	loop, _, ctrl := newLoop(t, client, 0)

	ctrl.PostTerminate()

	if err := loop.Run(); err != nil {
		t.Fatalf("Run()=%v want nil on terminate", err)
	}
	if client.calls != 0 {
		t.Fatalf("no poll should run after terminate, got %d", client.calls)
	}
}

func TestRun_TerminateInterruptsSleep(t *testing.T) {
	client := &scriptClient{
		responses: [][]uint16{{1, 2, 3}},
		err:       errors.New("unused"),
	}

	loop, _, ctrl := newLoop(t, client, 5*time.Second)

	go func() {
		time.Sleep(50 * time.Millisecond)
		ctrl.PostTerminate()
	}()

	start := time.Now()
	if err := loop.Run(); err != nil {
		t.Fatalf("Run()=%v want nil", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("terminate honored after %v, not within the sleep", elapsed)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one poll, got %d", client.calls)
	}
}

func TestRun_RelayoutRebuildsWithoutSkippingPoll(t *testing.T) {
	client := &scriptClient{
		responses: [][]uint16{{1, 2, 3}},
		err:       errors.New("done"),
	}

	loop, surface, ctrl := newLoop(t, client, 0)
	ctrl.PostRelayout()

	if err := loop.Run(); err == nil {
		t.Fatalf("expected the scripted read error")
	}

	if surface.rebuilds != 1 {
		t.Fatalf("rebuilds=%d want 1", surface.rebuilds)
	}
	// the resize pass still polled: first cycle plus the failing one
	if client.calls != 2 {
		t.Fatalf("calls=%d want 2", client.calls)
	}
}

func TestRun_RelayoutDuringSleepKeepsSchedule(t *testing.T) {
	client := &scriptClient{
		responses: [][]uint16{{1, 2, 3}},
		err:       errors.New("unused"),
	}

	loop, surface, ctrl := newLoop(t, client, 400*time.Millisecond)

	go func() {
		time.Sleep(50 * time.Millisecond)
		ctrl.PostRelayout()
		time.Sleep(100 * time.Millisecond)
		ctrl.PostTerminate()
	}()

	if err := loop.Run(); err != nil {
		t.Fatalf("Run()=%v want nil", err)
	}

	if surface.rebuilds != 1 {
		t.Fatalf("rebuilds=%d want 1", surface.rebuilds)
	}
	// the resize redrew mid-sleep; it must not have triggered a poll
	if client.calls != 1 {
		t.Fatalf("calls=%d want 1", client.calls)
	}
}
