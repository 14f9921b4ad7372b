// Package cli wires the boot menu into a command line tool: flag parsing,
// console and log setup, and the pick/boot subcommands.
package cli

import (
	"os"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Maccraft123/bootmgr/pkg/tui"
	"github.com/Maccraft123/bootmgr/pkg/util"
)

const (
	programName = "bootmgr"
	programDesc = "UEFI boot selection menu"
)

type verboseFlag bool

func (v verboseFlag) BeforeApply() error {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return nil
}

type traceFlag bool

func (v traceFlag) BeforeApply() error {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = log.Logger.With().Caller().Logger()
	return nil
}

type rootCmd struct {
	// Global options
	LogFlag bool        `name:"log" help:"Force log output on instead of buffering it while the menu is shown"`
	Verbose verboseFlag `help:"Enable verbose mode, implies log"`
	Trace   traceFlag   `hidden:""`
	Colors  bool        `help:"Force colors on for all console outputs (default: autodetect)"`

	// Subcommands
	Pick pickCmd `cmd:"" default:"1" help:"Choose a boot entry and print it without touching firmware state"`
	Boot bootCmd `cmd:"" help:"Choose a boot entry, set BootNext and reboot into it"`
}

func initUI(forceColors bool, forceLog bool) {
	notty := os.Getenv("TERM") == "dumb" || (!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))

	// honor NO_COLOR env var as per https://no-color.org/ like the colors library we use does, too
	_, noColors := os.LookupEnv("NO_COLOR")

	cw := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStdout(),
		NoColor:    false,
		TimeFormat: "15:04:05"}

	if forceColors || (!notty && !noColors) {
		cw.NoColor = false
		cw.Out = colorable.NewColorableStdout()
	} else {
		cw.NoColor = noColors && !forceColors
		cw.Out = os.Stdout
	}

	// the menu owns the screen, so unless log output is forced on it goes
	// to a ring buffer that is dumped once the menu is gone
	tui.Init()
	if !forceLog {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		cw.Out = tui.Err
	}

	log.Logger = log.Output(cw)
}

func RunCommandLineTool() int {
	desc := programDesc + " (" + runtime.GOARCH + ")"

	var cli rootCmd
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(desc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	initUI(cli.Colors, cli.LogFlag || bool(cli.Verbose) || bool(cli.Trace))

	// tell who we are
	log.Debug().Msg(desc)

	// bail out if not root
	root, err := util.IsRoot()
	if err != nil {
		log.Warn().Msg("Can't check user. It is recommended to run as root")
		log.Debug().Err(err).Msg("util.IsRoot()")
	} else if !root {
		log.Error().Msg("This program must be run with elevated privileges")
		tui.DumpErr()
		return 1
	}

	// Run the selected subcommand
	if err := ctx.Run(); err != nil {
		tui.DumpErr()
		return 1
	}

	tui.DumpErr()
	return 0
}
