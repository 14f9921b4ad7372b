package tui

import (
	"fmt"
	"io"

	"github.com/armon/circbuf"
	"github.com/mattn/go-colorable"
)

var (
	Out io.Writer = io.Discard
	Err io.Writer = io.Discard
)

// Init points Out at the real terminal and Err at a ring buffer that
// collects log output while the menu owns the screen.
func Init() {
	Out = colorable.NewColorableStdout()
	Err, _ = circbuf.NewBuffer(1024 * 128)
}

// DumpErr prints whatever log output accumulated while the screen was busy.
func DumpErr() {
	buf, ok := Err.(*circbuf.Buffer)
	if ok {
		fmt.Print(buf.String())
		buf.Reset()
	}
}
