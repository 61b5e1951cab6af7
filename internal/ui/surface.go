// internal/ui/surface.go
package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/tamzrod/modpoll/internal/poller"
)

const (
	// fieldIndent is how far fields and values are indented inside
	// their boxes.
	fieldIndent = 2

	// labelWidth aligns the info panel values in one column.
	labelWidth = 16

	dataHeader = "Polling slave... (Ctrl-C to stop)"
)

// Surface owns the two screen panels: a fixed-height info panel on
// top and a data panel below it filling the rest of the terminal.
type Surface struct {
	screen tcell.Screen
	layout poller.Layout
	style  tcell.Style

	mu     sync.Mutex
	closed bool
}

// Open initialises the terminal and draws the empty panels.
func Open() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return attach(screen), nil
}

// NewWithScreen builds a Surface on a caller-provided screen, already
// initialised. Used with tcell's SimulationScreen in tests.
func NewWithScreen(screen tcell.Screen) *Surface {
	return attach(screen)
}

func attach(screen tcell.Screen) *Surface {
	screen.HideCursor()
	s := &Surface{
		screen: screen,
		style:  tcell.StyleDefault,
	}
	s.Rebuild(poller.LayoutFor(screen.Size()))
	return s
}

// Size reports the current terminal size in cells.
func (s *Surface) Size() (cols, rows int) {
	return s.screen.Size()
}

// Rebuild clears the screen and redraws both panel frames for the
// given geometry. Called at startup and after a resize.
func (s *Surface) Rebuild(l poller.Layout) {
	s.layout = l
	s.screen.Clear()

	right := l.Columns - 1
	s.drawBox(0, 0, right, l.InfoRows-1)

	if l.DataRows > 0 {
		s.drawBox(0, l.InfoRows, right, l.InfoRows+l.DataRows-1)
		s.putText(fieldIndent, l.InfoRows+1, dataHeader)
	}

	s.screen.Sync()
}

// DrawInfo renders the label/value fields into the info panel, one
// per row under the top border.
func (s *Surface) DrawInfo(fields []poller.InfoField) {
	for i, f := range fields {
		row := 1 + i
		if row >= s.layout.InfoRows-1 {
			break
		}
		s.clearRow(row)
		s.putText(fieldIndent, row, pad(f.Label+":", labelWidth)+f.Value)
	}
}

// DrawDataRow writes one line into the data panel. The row index is
// panel-relative; empty text blanks the row. Rows outside the panel
// interior are dropped.
func (s *Surface) DrawDataRow(row int, text string) {
	if row < 1 || row >= s.layout.DataRows-1 {
		return
	}
	y := s.layout.InfoRows + row
	s.clearRow(y)
	s.putText(fieldIndent, y, text)
}

// Flush makes the pending draws visible.
func (s *Surface) Flush() {
	s.screen.Show()
}

// Close restores the terminal. Idempotent: both the failure path and
// the signal path may invoke it.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.screen.Fini()
}

// ---- drawing primitives ----

func (s *Surface) putText(x, y int, text string) {
	max := s.layout.Columns - 1
	for _, r := range text {
		if x >= max {
			break
		}
		s.screen.SetContent(x, y, r, nil, s.style)
		x++
	}
}

// clearRow blanks the interior of a screen row, leaving the box
// borders intact.
func (s *Surface) clearRow(y int) {
	for x := 1; x < s.layout.Columns-1; x++ {
		s.screen.SetContent(x, y, ' ', nil, s.style)
	}
}

func (s *Surface) drawBox(x1, y1, x2, y2 int) {
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1 + 1; x < x2; x++ {
		s.screen.SetContent(x, y1, tcell.RuneHLine, nil, s.style)
		s.screen.SetContent(x, y2, tcell.RuneHLine, nil, s.style)
	}
	for y := y1 + 1; y < y2; y++ {
		s.screen.SetContent(x1, y, tcell.RuneVLine, nil, s.style)
		s.screen.SetContent(x2, y, tcell.RuneVLine, nil, s.style)
	}

	s.screen.SetContent(x1, y1, tcell.RuneULCorner, nil, s.style)
	s.screen.SetContent(x2, y1, tcell.RuneURCorner, nil, s.style)
	s.screen.SetContent(x1, y2, tcell.RuneLLCorner, nil, s.style)
	s.screen.SetContent(x2, y2, tcell.RuneLRCorner, nil, s.style)
}

func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
