// Command resultfetch fetches response bodies or cookies from URLs, and can
// serve the local fixtures those fetches are tested against.
//
// Usage:
//
//	resultfetch body [url...]
//	resultfetch cookies [url...]
//	resultfetch serve
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/resultfetch/internal/app"
	"github.com/raysh454/resultfetch/internal/logging"
)

const defaultURL = "https://jsonplaceholder.typicode.com/posts/1"

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	configPath  string
	backend     string
	timeout     time.Duration
	verbose     bool
	concurrency int

	cfg    *app.Config
	logger logging.Logger
	sync   func() error
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "resultfetch",
		Short:         "Fetch response bodies or cookies with single-shot async requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.sync != nil {
				_ = c.sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&c.backend, "backend", "", "transport backend: nethttp|fasthttp (overrides config)")
	flags.DurationVar(&c.timeout, "timeout", 0, "per-request timeout (overrides config)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.bodyCmd(), c.cookiesCmd(), c.serveCmd())
	return root
}

func (c *cli) init() error {
	cfg, err := app.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.WebClient.Backend = c.backend
	}
	if c.timeout > 0 {
		cfg.WebClient.Timeout = c.timeout.String()
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	z, err := logging.BuildZap(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zl := logging.NewZapLogger(z)
	c.logger = zl
	c.sync = zl.Sync
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
