package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/walkthrough"
)

// errWalkthroughFailed is returned when any step did not pass.
var errWalkthroughFailed = errors.New("walkthrough failed")

func newWalkthroughCmd(o *rootOptions) *cobra.Command {
	var (
		name       string
		reset      bool
		reportPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:     "walkthrough [file|dir...]",
		Aliases: []string{"wt"},
		Short:   "Replay scripted walkthroughs and check every step",
		Long: `walkthrough replays YAML scripts of lab actions and checks the events
of every step against its expectations. Without arguments the bundled
walkthroughs are played, one per scenario.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts, err := loadScripts(name, args)
			if err != nil {
				return err
			}
			if reset {
				for _, s := range scripts {
					s.ResetProgress = true
				}
			}

			logger := o.cliLogger()
			clk := walkthrough.NewClock()
			l, err := openLab(o.cfg, logger, runner.WithClock(clk.Now))
			if err != nil {
				return err
			}
			defer l.Close()

			player := walkthrough.NewPlayer(l.runner,
				walkthrough.WithClock(clk),
				walkthrough.WithLogger(logger),
			)
			results, runErr := player.RunAll(cmd.Context(), scripts)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				writeResults(out, results)
			}
			if reportPath != "" {
				if err := writeWalkthroughReport(reportPath, results); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			for _, res := range results {
				if !res.AllPassed() {
					return errWalkthroughFailed
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "play only the bundled walkthrough with this name")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the touched scenarios' progress first")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a Markdown report to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func loadScripts(name string, paths []string) ([]*walkthrough.Script, error) {
	if name != "" && len(paths) > 0 {
		return nil, errors.New("--name cannot be combined with script paths")
	}
	if name != "" {
		s, err := walkthrough.BuiltinFor(name)
		if err != nil {
			return nil, err
		}
		return []*walkthrough.Script{s}, nil
	}
	if len(paths) == 0 {
		return walkthrough.Builtin()
	}

	var scripts []*walkthrough.Script
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			list, err := walkthrough.LoadDir(p)
			if err != nil {
				return nil, err
			}
			scripts = append(scripts, list...)
			continue
		}
		s, err := walkthrough.LoadFile(p)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

func writeResults(w io.Writer, results []*walkthrough.Result) {
	for _, res := range results {
		fmt.Fprintf(w, "%-20s %-6s %d/%d steps passed\n",
			res.Script, res.Status, len(res.Steps)-res.Failed, len(res.Steps),
		)
		for _, s := range res.Steps {
			if s.Status == walkthrough.StatusPassed {
				continue
			}
			if s.Error != "" {
				fmt.Fprintf(w, "  step %d (%s): %s\n", s.Index, s.Action, s.Error)
			}
			for _, a := range s.Assertions {
				if !a.Passed {
					fmt.Fprintf(w, "  step %d (%s): %s\n", s.Index, s.Action, a.Message)
				}
			}
		}
	}
}

func writeWalkthroughReport(path string, results []*walkthrough.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	for _, res := range results {
		if err := report.WriteWalkthroughMarkdown(f, res); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
