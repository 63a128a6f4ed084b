package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/letsconfuse/manualQaLabs/pkg/config"
	"github.com/letsconfuse/manualQaLabs/pkg/env"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
)

type rootOptions struct {
	configPath  string
	envFile     string
	verbose     bool
	storeDriver string
	storePath   string

	errOut io.Writer
	cfg    *config.Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	o := &rootOptions{errOut: errOut}

	cmd := &cobra.Command{
		Use:   "qalabs",
		Short: "Manual QA labs: find the edge cases hidden in fragile forms",
		Long: `qalabs hosts eight practice scenarios (age gate, username validator,
search box, file upload, coupon cart, role manager, booking calendar and
billing console). Each scenario hides a checklist of edge cases that are
revealed as you trigger them.

Run "qalabs serve" for the HTTP API and live dashboard, or drive scenarios
directly with "probe" and "walkthrough".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "qalabs.yaml", "config file")
	flags.StringVar(&o.envFile, "env-file", ".env", "dotenv file with QALABS_* overrides")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose logging")
	flags.StringVar(&o.storeDriver, "store", "", "progress store driver (memory, file, sqlite)")
	flags.StringVar(&o.storePath, "store-path", "", "progress store directory or database file")

	cmd.AddCommand(
		newServeCmd(o),
		newListCmd(o),
		newProbeCmd(o),
		newWalkthroughCmd(o),
		newProgressCmd(o),
		newCatalogCmd(o),
		newConfigCmd(o),
	)

	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	loader := env.NewLoader()
	if o.envFile != "" {
		err := loader.Load(o.envFile)
		if err != nil && !(errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("env-file")) {
			return err
		}
	}

	cfg, err := config.Load(o.configPath, loader)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Log.Verbose = true
	}
	if o.storeDriver != "" {
		cfg.Store.Driver = o.storeDriver
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// cliLogger keeps one-shot commands quiet unless --verbose is set,
// and never writes to stdout.
func (o *rootOptions) cliLogger() logging.Logger {
	if !o.cfg.Log.Verbose {
		return logging.NullLogger{}
	}
	return logging.NewConsoleLoggerTo(o.errOut, true)
}
