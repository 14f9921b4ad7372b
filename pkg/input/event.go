// Package input merges keyboard and game controller input into a single
// stream of menu navigation events. Each source runs as its own goroutine
// that blocks on its device and feeds a shared queue; the menu is the sole
// consumer. The sources have no shutdown path, they live until the process
// exits.
package input

// Kind enumerates the navigation events the menu understands.
type Kind int

const (
	MoveUp Kind = iota
	MoveDown
	Confirm
)

// Event is one normalized navigation event. Pressed is only meaningful for
// Confirm: a controller reports both the press and the release of the
// confirm button, the keyboard only ever reports a press.
type Event struct {
	Kind    Kind
	Pressed bool
}
