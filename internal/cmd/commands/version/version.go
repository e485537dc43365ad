// Package version implements "ghostctl version".
package version

import (
	"github.com/openclaw/ghostctl/internal/cmd/base"
	versionpkg "github.com/openclaw/ghostctl/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the ghostctl version"
}

func (c *Command) Help() string {
	return `Usage: ghostctl version

  Prints the version of this ghostctl build.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("ghostctl " + versionpkg.Version)
	return 0
}
