// internal/poller/loop.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/modpoll/internal/signals"
)

const (
	// InfoPanelRows is the fixed height of the info panel: four
	// display fields plus the box border.
	InfoPanelRows = 6

	// dataHeaderRows is how many data-panel rows are reserved above
	// the first value line (border, header text, spacer).
	dataHeaderRows = 3
)

// Surface is the terminal the loop renders into. Close must be
// idempotent: the failure path and the signal path may both reach it.
type Surface interface {
	DrawInfo(fields []InfoField)
	DrawDataRow(row int, text string)
	Flush()
	Rebuild(l Layout)
	Size() (cols, rows int)
	Close()
}

// SignalSource exposes asynchronous lifecycle events as cooperative
// state the loop samples at its checkpoints.
type SignalSource interface {
	Pending() signals.Signal
	Done() <-chan struct{}
	Wake() <-chan struct{}
}

// LayoutFor derives the panel geometry from a terminal size.
func LayoutFor(cols, rows int) Layout {
	data := rows - InfoPanelRows
	if data < 0 {
		data = 0
	}
	return Layout{InfoRows: InfoPanelRows, DataRows: data, Columns: cols}
}

// Loop drives the poll-render-signal cycle.
type Loop struct {
	poller   *Poller
	surface  Surface
	sigs     SignalSource
	interval time.Duration
	info     []InfoField

	lastRows int // value rows written by the previous cycle
}

// NewLoop wires the orchestrator. The info fields are redrawn on every
// panel rebuild.
func NewLoop(p *Poller, surface Surface, sigs SignalSource, interval time.Duration, info []InfoField) *Loop {
	return &Loop{
		poller:   p,
		surface:  surface,
		sigs:     sigs,
		interval: interval,
		info:     info,
	}
}

// Run polls, renders and waits until a termination signal (returns
// nil) or a read failure (returns the error, fatal by design — no
// retry, no reconnect). The caller owns resource release.
func (l *Loop) Run() error {
	l.surface.DrawInfo(l.info)
	l.surface.Flush()

	for {
		switch l.sigs.Pending() {
		case signals.Terminate:
			return nil
		case signals.Relayout:
			// Render-only event: rebuild and fall through to the
			// poll, so a resize neither skips nor duplicates it.
			l.relayout()
		}

		res := l.poller.PollOnce()
		if res.Err != nil {
			return res.Err
		}
		l.render(res)

		if l.wait() {
			return nil
		}
	}
}

// render writes one line per value and blanks rows a shorter result
// no longer covers, so no stale line from a larger previous cycle
// survives.
func (l *Loop) render(res PollResult) {
	for i, v := range res.Values {
		l.surface.DrawDataRow(dataHeaderRows+i, fmt.Sprintf("[%d]: %d", v.Ref, v.Raw))
	}
	for i := len(res.Values); i < l.lastRows; i++ {
		l.surface.DrawDataRow(dataHeaderRows+i, "")
	}
	l.lastRows = len(res.Values)
	l.surface.Flush()
}

func (l *Loop) relayout() {
	l.surface.Rebuild(LayoutFor(l.surface.Size()))
	l.surface.DrawInfo(l.info)
	l.surface.Flush()
	// the rebuild cleared the data panel; nothing to blank next cycle
	l.lastRows = 0
}

// wait sleeps out the poll interval. A Terminate mid-sleep is honored
// immediately (true); a Relayout mid-sleep rebuilds the panels without
// resetting the timer, keeping the next poll on schedule.
func (l *Loop) wait() bool {
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return false
		case <-l.sigs.Done():
			return true
		case <-l.sigs.Wake():
			if l.sigs.Pending() == signals.Relayout {
				l.relayout()
			}
		}
	}
}
