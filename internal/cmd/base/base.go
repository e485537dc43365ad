// Package base carries the plumbing shared by every CLI command: the
// terminal UI, the logger, and a flag set wrapper that renders help
// text.
package base

import (
	"bytes"
	"flag"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by each CLI command to provide the shared UI and
// logger.
type Command struct {
	// UI is the terminal the command talks to.
	UI cli.Ui

	// Log is the structured logger, handed down to the client library.
	Log hclog.Logger
}

// NewCommand returns the shared command state embedded by every
// subcommand.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
	}
}

// FlagSet wraps a flag.FlagSet so commands can append a rendered
// options block to their help output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f for use in a command.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flag descriptions for inclusion in a command's Help
// output.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.FlagSet.SetOutput(&buf)
	f.FlagSet.PrintDefaults()
	if buf.Len() == 0 {
		return ""
	}
	return "\n\nOptions:\n\n" + strings.TrimRight(buf.String(), "\n")
}
