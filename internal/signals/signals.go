// internal/signals/signals.go
package signals

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// Signal is a coalesced lifecycle event. Asynchronous delivery only
// sets flags; the poll loop consumes them at its own checkpoints.
type Signal int

const (
	None Signal = iota
	Relayout
	Terminate
)

// Controller records signal occurrences atomically and defers all
// teardown to the main loop. Safe to post from any goroutine,
// including the os/signal pump.
type Controller struct {
	terminate atomic.Bool
	relayout  atomic.Bool

	wake chan struct{} // nudged on every post, capacity 1
	done chan struct{} // closed on first Terminate
	quit chan struct{} // closed by Close; stops the pump

	closeDone sync.Once
	closeQuit sync.Once
	stop      func()
}

// New returns a Controller with no process signals registered.
// Tests and alternate frontends post events directly.
func New() *Controller {
	return &Controller{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		quit: make(chan struct{}),
	}
}

// Notify returns a Controller wired to the process signal set:
// hangup/interrupt/termination map to Terminate, terminal resize
// (where the platform has one) maps to Relayout.
func Notify() *Controller {
	c := New()

	ch := make(chan os.Signal, 4)
	signal.Notify(ch, watched...)
	c.stop = func() { signal.Stop(ch) }

	go c.pump(ch)
	return c
}

func (c *Controller) pump(ch <-chan os.Signal) {
	for {
		select {
		case sig := <-ch:
			if isResize(sig) {
				c.PostRelayout()
			} else {
				c.PostTerminate()
			}
		case <-c.quit:
			return
		}
	}
}

// PostTerminate records a termination request. Sticky; repeated posts
// coalesce.
func (c *Controller) PostTerminate() {
	c.terminate.Store(true)
	c.closeDone.Do(func() { close(c.done) })
	c.nudge()
}

// PostRelayout records a terminal resize. Repeated posts coalesce into
// one pending Relayout.
func (c *Controller) PostRelayout() {
	c.relayout.Store(true)
	c.nudge()
}

func (c *Controller) nudge() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pending reports the signal the loop should act on. Terminate wins
// and stays observable; Relayout is cleared by the observation.
func (c *Controller) Pending() Signal {
	if c.terminate.Load() {
		return Terminate
	}
	if c.relayout.Swap(false) {
		return Relayout
	}
	return None
}

// Done is closed once a Terminate has been posted. Blocking waits
// select on it so termination is honored mid-sleep.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wake receives a nudge after any post. It lets a sleeping loop react
// to a Relayout without waiting out the poll interval.
func (c *Controller) Wake() <-chan struct{} {
	return c.wake
}

// Close unregisters the process signal handlers, if any, and stops
// the delivery goroutine. Safe to call more than once.
func (c *Controller) Close() {
	if c.stop != nil {
		c.stop()
	}
	c.closeQuit.Do(func() { close(c.quit) })
}
