package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

func newListCmd(o *rootOptions) *cobra.Command {
	var (
		typ    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scenarios with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := openLab(o.cfg, o.cliLogger())
			if err != nil {
				return err
			}
			defer l.Close()

			defs := l.registry.Definitions()
			if typ != "" {
				defs = l.registry.ListByType(scenario.Type(strings.ToLower(typ)))
			}

			checklists := make([]*report.Checklist, 0, len(defs))
			for _, def := range defs {
				snap, err := l.runner.Progress(cmd.Context(), def.ID)
				if err != nil {
					return err
				}
				checklists = append(checklists, report.BuildChecklist(def, snap))
			}

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), report.BuildMasterSummary(checklists).Scenarios)
			case "table", "":
				return writeScenarioTable(cmd.OutOrStdout(), checklists)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "only list scenarios of this type")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")
	return cmd
}

func writeScenarioTable(w io.Writer, checklists []*report.Checklist) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDIFFICULTY\tTYPE\tPROGRESS")
	for _, c := range checklists {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d (%d%%)\n",
			c.ScenarioID, c.Title, c.Difficulty, c.Type,
			c.Solved, c.Total, c.Percent,
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
