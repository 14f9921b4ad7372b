package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// styles
var (
	TitleStyle     = color.New(color.FgCyan, color.Bold).SprintFunc()
	HighlightStyle = color.New(color.FgHiWhite, color.Bold).SprintFunc()
)

// Screen draws the boot menu on the alternate screen buffer of the
// controlling terminal. Every Draw repaints the full frame in a single
// write so a half-drawn menu is never visible.
type Screen struct {
	out io.Writer
}

func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

// Enter switches to the alternate screen and hides the cursor.
func (s *Screen) Enter() error {
	_, err := io.WriteString(s.out, "\x1b[?1049h\x1b[?25l")
	return err
}

// Leave restores the cursor and the primary screen.
func (s *Screen) Leave() error {
	_, err := io.WriteString(s.out, "\x1b[?25h\x1b[?1049l")
	return err
}

// Draw repaints the menu: the title on line 2, one row per line starting at
// line 4 column 5, and a marker in front of the highlighted row.
func (s *Screen) Draw(title string, rows []string, cursor int) error {
	var frame strings.Builder

	frame.WriteString("\x1b[2J")
	frame.WriteString("\x1b[2;2H")
	frame.WriteString(TitleStyle(title))

	for i, row := range rows {
		fmt.Fprintf(&frame, "\x1b[%d;5H", 4+i)
		if i == cursor {
			frame.WriteString(HighlightStyle(row))
		} else {
			frame.WriteString(row)
		}
	}

	fmt.Fprintf(&frame, "\x1b[%d;2H=>", 4+cursor)

	_, err := io.WriteString(s.out, frame.String())
	return err
}
