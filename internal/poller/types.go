// internal/poller/types.go
package poller

import "time"

// Value is one decoded data point. Ref is the 1-based user-facing
// reference; Raw is the register word, or 0/1 for bit kinds.
type Value struct {
	Ref int
	Raw uint16
}

// PollResult is a snapshot produced by one poll cycle. It is never
// retained across cycles; previous values stay visible on screen only
// because the renderer overwrites rows in place.
type PollResult struct {
	At     time.Time
	Values []Value
	Err    error // non-nil means the cycle failed; fatal for the session
}

// Layout is the two-panel screen geometry, recomputed at startup and
// whenever a relayout signal fires.
type Layout struct {
	InfoRows int
	DataRows int
	Columns  int
}

// InfoField is one label/value line of the info panel.
type InfoField struct {
	Label string
	Value string
}
