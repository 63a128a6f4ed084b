package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

func newProgressCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect, report and reset saved progress",
	}
	cmd.AddCommand(
		newProgressShowCmd(o),
		newProgressResetCmd(o),
		newProgressSummaryCmd(o),
		newProgressHistoryCmd(o),
	)
	return cmd
}

func reporterFor(format string) (report.Reporter, error) {
	switch format {
	case "md", "markdown":
		return report.NewMarkdownReporter(), nil
	case "json":
		return report.NewJSONReporter(true), nil
	case "html":
		return report.NewHTMLReporter(), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

func (l *lab) checklists(ctx context.Context) ([]*report.Checklist, error) {
	defs := l.registry.Definitions()
	out := make([]*report.Checklist, 0, len(defs))
	for _, def := range defs {
		snap, err := l.runner.Progress(ctx, def.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, report.BuildChecklist(def, snap))
	}
	return out, nil
}

func newProgressShowCmd(o *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [scenario]",
		Short: "Render one scenario's checklist or the master summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := reporterFor(format)
			if err != nil {
				return err
			}
			l, err := openLab(o.cfg, o.cliLogger())
			if err != nil {
				return err
			}
			defer l.Close()

			var data []byte
			if len(args) == 1 {
				id := scenario.ID(args[0])
				def, err := l.registry.Definition(id)
				if err != nil {
					return err
				}
				snap, err := l.runner.Progress(cmd.Context(), id)
				if err != nil {
					return err
				}
				data, err = rep.GenerateReport(report.BuildChecklist(def, snap))
				if err != nil {
					return err
				}
			} else {
				checklists, err := l.checklists(cmd.Context())
				if err != nil {
					return err
				}
				data, err = rep.GenerateMasterSummary(checklists)
				if err != nil {
					return err
				}
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "report format (md, json, html)")
	return cmd
}

func newProgressResetCmd(o *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset <scenario> | --all",
		Short: "Forget the solved edge cases of a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("name one scenario or pass --all")
			}
			l, err := openLab(o.cfg, o.cliLogger())
			if err != nil {
				return err
			}
			defer l.Close()

			ids := []scenario.ID{}
			if all {
				for _, def := range l.registry.Definitions() {
					ids = append(ids, def.ID)
				}
			} else {
				ids = append(ids, scenario.ID(args[0]))
			}
			for _, id := range ids {
				if err := l.runner.Reset(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every scenario")
	return cmd
}

func newProgressSummaryCmd(o *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Save the master summary as JSON and Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := openLab(o.cfg, o.cliLogger())
			if err != nil {
				return err
			}
			defer l.Close()

			checklists, err := l.checklists(cmd.Context())
			if err != nil {
				return err
			}
			summary := report.BuildMasterSummary(checklists)
			if err := report.SaveMasterSummary(summary, outDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d edge cases found (%d%%), summary written to %s\n",
				summary.SolvedRules, summary.TotalRules, summary.Percent, outDir,
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "reports", "output directory")
	return cmd
}

func newProgressHistoryCmd(o *rootOptions) *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the log of newly solved edge cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = o.cfg.HistoryPath
			}
			if path == "" {
				return errors.New("no history file: set history_path or pass --path")
			}
			entries, err := report.ReadHistory(path)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSCENARIO\tEDGE CASE\tPROGRESS")
			for _, e := range entries {
				mark := ""
				if e.Completed {
					mark = " complete"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d (%d%%)%s\n",
					e.Timestamp.Format(time.RFC3339), e.ScenarioID, e.EdgeCaseID,
					e.Solved, e.Total, e.Percent, mark,
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "history file (defaults to history_path)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n entries")
	return cmd
}
