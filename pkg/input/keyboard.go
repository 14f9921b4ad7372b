package input

import (
	"fmt"

	"github.com/eiannone/keyboard"
)

// StartKeyboard switches the terminal into raw key-event mode and forwards
// Enter and the vertical arrow keys into q. All other keys are dropped. A
// failed read is unrecoverable and is reported on fatal; the menu has no
// other way to learn that its input is gone.
func StartKeyboard(q *Queue, fatal chan<- error) error {
	if err := keyboard.Open(); err != nil {
		return fmt.Errorf("opening keyboard: %w", err)
	}

	go func() {
		for {
			_, key, err := keyboard.GetKey()
			if err != nil {
				fatal <- fmt.Errorf("keyboard read: %w", err)
				return
			}
			if ev, ok := mapKey(key); ok {
				q.Send(ev)
			}
		}
	}()

	return nil
}

// CloseKeyboard restores the terminal to cooked mode once the menu is
// done. The reader goroutine itself has no shutdown signal and lives until
// the process exits.
func CloseKeyboard() {
	keyboard.Close()
}

func mapKey(key keyboard.Key) (Event, bool) {
	switch key {
	case keyboard.KeyEnter:
		return Event{Kind: Confirm, Pressed: true}, true
	case keyboard.KeyArrowDown:
		return Event{Kind: MoveDown}, true
	case keyboard.KeyArrowUp:
		return Event{Kind: MoveUp}, true
	}
	return Event{}, false
}
