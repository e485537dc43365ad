// Package check implements "ghostctl check": the post-install
// checklist that validates the stored admin key and each configured
// permission against the live site.
package check

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/openclaw/ghostctl/internal/checker"
	"github.com/openclaw/ghostctl/internal/cmd/base"
	"github.com/openclaw/ghostctl/internal/config"
	"github.com/openclaw/ghostctl/pkg/ghost"
)

type Command struct {
	*base.Command

	flagConfig string
	flagCreds  string
	flagLogDir string
}

func (c *Command) Synopsis() string {
	return "Validate the configuration against the live site"
}

func (c *Command) Help() string {
	return `Usage: ghostctl check -config=config.json

  Connects to the configured site with the stored admin key and
  exercises each permitted operation: reads, draft creation, update,
  publish round-trip, tag creation, deletion, member listing. Checks
  denied by the local policy are reported as skipped, not failed.
  Artifacts created along the way are removed afterwards.

  Results are printed per check and appended as one JSON line to the
  run log.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("check", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "config.json",
		"Path to the configuration file (HCL or JSON).",
	)
	f.StringVar(
		&c.flagCreds, "creds", "",
		"Path to the admin key file. Overrides credentials_file from the config.",
	)
	f.StringVar(
		&c.flagLogDir, "log-dir", "",
		"Directory for the JSONL run log. Overrides log_dir from the config.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.Load(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	credsPath := cfg.CredentialsFile
	if c.flagCreds != "" {
		credsPath = c.flagCreds
	}
	credsPath, err = config.ExpandPath(credsPath)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	creds, err := ghost.LoadCredentials(afero.NewOsFs(), credsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.UI.Error(fmt.Sprintf("Credentials not found: %s", credsPath))
			c.UI.Error("Create the file with a single line: <key_id>:<secret_hex>")
			return 1
		}
		c.UI.Error(fmt.Sprintf("error loading credentials: %v", err))
		return 1
	}

	client, err := ghost.NewClient(cfg.ClientConfig(creds, c.Log))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building client: %v", err))
		return 1
	}

	// The cleanup client exists solely to remove checklist artifacts
	// when the configured policy cannot delete them. Same key, delete
	// allowed, nothing else.
	cleanupCfg := cfg.ClientConfig(creds, c.Log)
	cleanupCfg.Policy = &ghost.Policy{AllowDelete: true}
	cleanupClient, err := ghost.NewClient(cleanupCfg)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building cleanup client: %v", err))
		return 1
	}

	chk, err := checker.New(checker.Config{
		Client:        client,
		CleanupClient: cleanupClient,
		OnResult:      c.printResult,
		Logger:        c.Log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building checker: %v", err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		c.Log.Warn("received signal, aborting run", "signal", sig)
		cancel()
	}()

	c.UI.Output("Ghost admin API check")
	c.UI.Output(fmt.Sprintf("Site: %s", cfg.BaseURL))
	c.UI.Output("")

	report := chk.Run(ctx)

	passed, skipped, failed := report.Counts()
	if failed > 0 && len(report.Results) == 1 {
		c.UI.Error("")
		c.UI.Error("Cannot proceed without a valid connection. Check the base URL and credentials.")
	}

	c.UI.Output("")
	summary := fmt.Sprintf("%d/%d checks passed", passed, passed+failed)
	if skipped > 0 {
		summary += fmt.Sprintf(", %d skipped (disabled in config)", skipped)
	}
	c.UI.Output(summary)

	logDir := cfg.LogDir
	if c.flagLogDir != "" {
		logDir = c.flagLogDir
	}
	runLog := checker.NewRunLog(nil, logDir)
	if err := runLog.Append(report); err != nil {
		c.UI.Warn(fmt.Sprintf("run log not written: %v", err))
	} else {
		c.UI.Output(fmt.Sprintf("Log written to %s", runLog.Path()))
	}

	if report.Err() != nil {
		c.UI.Error("")
		c.UI.Error("Failed checks:")
		for _, res := range report.Results {
			if res.Status == checker.StatusFail {
				c.UI.Error(fmt.Sprintf("  ✗  %s", res.Name))
			}
		}
		c.UI.Error("")
		c.UI.Error("Review the config and admin key, then run the check again.")
		return 1
	}

	c.UI.Output("")
	c.UI.Output("Ready to use. ✓")
	return 0
}

func (c *Command) printResult(res checker.Result) {
	switch res.Status {
	case checker.StatusPass:
		line := fmt.Sprintf("  ✓  %s", res.Name)
		if res.Detail != "" {
			line += "  " + res.Detail
		}
		c.UI.Output(line)
	case checker.StatusSkip:
		c.UI.Output(fmt.Sprintf("  ~  %s  (skipped: %s)", res.Name, res.Detail))
	case checker.StatusFail:
		c.UI.Error(fmt.Sprintf("  ✗  %s  → %s", res.Name, res.Detail))
	}
}
