package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Maccraft123/bootmgr/pkg/bootentry"
	"github.com/Maccraft123/bootmgr/pkg/efivar"
	"github.com/Maccraft123/bootmgr/pkg/input"
	"github.com/Maccraft123/bootmgr/pkg/menu"
	"github.com/Maccraft123/bootmgr/pkg/tui"
)

type pickCmd struct {
}

type bootCmd struct {
}

func (pick *pickCmd) Run() error {
	entry, err := chooseEntry()
	if err != nil {
		return err
	}

	fmt.Fprintf(tui.Out, "Boot%s: %s\n", entry.IDText, entry)
	fmt.Fprintln(tui.Out, "NOT rebooting into it. Use the boot subcommand to make it stick.")
	return nil
}

func (boot *bootCmd) Run() error {
	entry, err := chooseEntry()
	if err != nil {
		return err
	}

	if err := efivar.WriteBootNext(entry.ID); err != nil {
		log.Error().Err(err).Msg("Failed to set BootNext")
		return err
	}

	log.Info().Str("entry", entry.Description).Msg("BootNext set, rebooting")
	if err := efivar.Reboot(); err != nil {
		log.Error().Err(err).Msg("Reboot failed")
		return err
	}
	return nil
}

// loadEntries decodes every Boot#### variable the firmware knows about.
// Entries that cannot be read or decoded are logged and skipped, the menu
// runs with whatever is left.
func loadEntries() ([]*bootentry.Entry, error) {
	names, err := efivar.BootOptionNames()
	if err != nil {
		return nil, err
	}

	var entries []*bootentry.Entry
	for _, name := range names {
		buf, err := efivar.ReadBootOption(name)
		if err != nil {
			log.Warn().Err(err).Str("var", name).Msg("Skipping unreadable boot entry")
			continue
		}
		entry, err := bootentry.Decode(name, buf)
		if err != nil {
			log.Warn().Err(err).Str("var", name).Msg("Skipping undecodable boot entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func chooseEntry() (*bootentry.Entry, error) {
	entries, err := loadEntries()
	if err != nil {
		return nil, err
	}

	queue := input.NewQueue()
	fatal := make(chan error, 2)

	if err := input.StartKeyboard(queue, fatal); err != nil {
		return nil, err
	}
	defer input.CloseKeyboard()

	// a missing controller is fine, the keyboard still works
	if err := input.StartGamepad(queue, fatal); err != nil {
		log.Warn().Err(err).Msg("Game controller unavailable")
	}

	screen := tui.NewScreen(tui.Out)
	if err := screen.Enter(); err != nil {
		return nil, err
	}
	defer screen.Leave()

	return menu.New(entries, screen).Run(queue.Events(), fatal)
}
