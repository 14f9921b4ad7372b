// Package menu implements the boot selection state machine. It is driven
// entirely by the merged input event stream and draws through a Screen, so
// tests can replay scripted event sequences against a fake screen.
package menu

import (
	"github.com/Maccraft123/bootmgr/pkg/bootentry"
	"github.com/Maccraft123/bootmgr/pkg/input"
)

const (
	title         = "Choose boot selection"
	sentinelLabel = "Advanced Boot Menu"
)

// Row is one selectable line. A nil Entry marks the sentinel row that opens
// the advanced view instead of booting anything.
type Row struct {
	Entry *bootentry.Entry
}

func (r Row) sentinel() bool { return r.Entry == nil }

// Screen renders the menu. The terminal implementation lives in pkg/tui.
type Screen interface {
	Draw(title string, rows []string, cursor int) error
}

type view int

const (
	defaultView view = iota
	advancedView
)

// Controller holds the cursor, the tracked row and the active view. It is
// single threaded; the only suspension point is the receive on the event
// stream.
type Controller struct {
	defaultRows []Row
	allRows     []Row
	screen      Screen

	view    view
	pos     int
	current Row
}

// New builds a controller over the decoded entries. The default view shows
// the default-candidate entries in decode order plus the sentinel row; the
// advanced view shows every entry. With no default candidates the tracked
// row starts out as the sentinel.
func New(entries []*bootentry.Entry, screen Screen) *Controller {
	c := &Controller{screen: screen}
	for _, e := range entries {
		if e.DisplayDefault {
			c.defaultRows = append(c.defaultRows, Row{Entry: e})
		}
		c.allRows = append(c.allRows, Row{Entry: e})
	}
	c.defaultRows = append(c.defaultRows, Row{})
	c.current = c.defaultRows[0]
	return c
}

// Run redraws after every event and blocks on the stream until a real entry
// is confirmed. An error on fatal or from the screen aborts the menu; there
// is no other way out.
func (c *Controller) Run(events <-chan input.Event, fatal <-chan error) (*bootentry.Entry, error) {
	for {
		if err := c.draw(); err != nil {
			return nil, err
		}

		select {
		case err := <-fatal:
			return nil, err
		case ev := <-events:
			if c.apply(ev) {
				return c.current.Entry, nil
			}
		}
	}
}

// apply advances the state machine by one event and reports whether a final
// choice was made.
func (c *Controller) apply(ev input.Event) bool {
	rows := c.rows()

	switch ev.Kind {
	case input.MoveDown:
		if c.pos+1 < len(rows) {
			c.pos++
			c.current = rows[c.pos]
		}
	case input.MoveUp:
		if c.pos > 0 && c.pos-1 < len(rows) {
			c.pos--
			c.current = rows[c.pos]
		}
	case input.Confirm:
		if !ev.Pressed {
			break
		}
		if c.current.sentinel() {
			// cursor and tracked row survive the view switch
			c.view = advancedView
		} else {
			return true
		}
	}

	return false
}

func (c *Controller) rows() []Row {
	if c.view == advancedView {
		return c.allRows
	}
	return c.defaultRows
}

func (c *Controller) draw() error {
	rows := c.rows()
	labels := make([]string, len(rows))
	for i, r := range rows {
		switch {
		case r.sentinel():
			labels[i] = sentinelLabel
		case c.view == defaultView:
			labels[i] = r.Entry.Description
		default:
			labels[i] = r.Entry.String()
		}
	}
	return c.screen.Draw(title, labels, c.pos)
}
