package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/openclaw/ghostctl/internal/cmd/base"
	"github.com/openclaw/ghostctl/internal/cmd/commands/check"
	versioncmd "github.com/openclaw/ghostctl/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

// initCommands builds the command registry around the shared logger and
// UI.
func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"check": func() (cli.Command, error) {
			return &check.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: b}, nil
		},
	}
}
