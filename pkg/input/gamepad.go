package input

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog/log"
)

// StartGamepad opens the first evdev device that looks like a game
// controller and forwards its d-pad and confirm button into q. A machine
// without a controller is normal, the keyboard alone drives the menu then.
func StartGamepad(q *Queue, fatal chan<- error) error {
	dev, err := findGamepad()
	if err != nil {
		return fmt.Errorf("scanning input devices: %w", err)
	}
	if dev == nil {
		log.Debug().Msg("no game controller found")
		return nil
	}

	if name, err := dev.Name(); err == nil {
		log.Debug().Str("device", name).Msg("using game controller")
	}

	go func() {
		for {
			raw, err := dev.ReadOne()
			if err != nil {
				fatal <- fmt.Errorf("gamepad read: %w", err)
				return
			}
			if ev, ok := mapGamepad(raw.Type, raw.Code, raw.Value); ok {
				q.Send(ev)
			}
		}
	}()

	return nil
}

// findGamepad picks the first device advertising a south face button, which
// is what separates controllers from keyboards and mice.
func findGamepad() (*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			if code == evdev.BTN_SOUTH {
				return dev, nil
			}
		}
		dev.Close()
	}

	return nil, nil
}

// mapGamepad normalizes raw evdev events. Digital d-pads show up as
// BTN_DPAD_* key events, analog ones as ABS_HAT0Y; both are handled. The
// south button passes its press state through so the menu can ignore
// releases.
func mapGamepad(t evdev.EvType, code evdev.EvCode, value int32) (Event, bool) {
	switch t {
	case evdev.EV_KEY:
		switch code {
		case evdev.BTN_SOUTH:
			return Event{Kind: Confirm, Pressed: value != 0}, true
		case evdev.BTN_DPAD_UP:
			if value == 1 {
				return Event{Kind: MoveUp}, true
			}
		case evdev.BTN_DPAD_DOWN:
			if value == 1 {
				return Event{Kind: MoveDown}, true
			}
		}
	case evdev.EV_ABS:
		if code == evdev.ABS_HAT0Y {
			switch {
			case value < 0:
				return Event{Kind: MoveUp}, true
			case value > 0:
				return Event{Kind: MoveDown}, true
			}
		}
	}
	return Event{}, false
}
