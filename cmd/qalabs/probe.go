package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letsconfuse/manualQaLabs/pkg/client"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

func newProbeCmd(o *rootOptions) *cobra.Command {
	var (
		remote string
		token  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "probe <scenario> <action> [key=value...]",
		Short: "Run one action against a scenario and show what it detected",
		Example: `  qalabs probe age-gate submit age=18
  qalabs probe coupon-code apply code=MEGA1000
  qalabs probe search-box search query="<script>" --remote http://localhost:8080`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := scenario.ID(args[0])
			action, err := parseAction(args[1], args[2:])
			if err != nil {
				return err
			}

			var out *runner.Outcome
			if remote != "" {
				if token == "" {
					token = o.cfg.Server.Token
				}
				c := client.NewAPIClient(remote,
					client.WithToken(token),
					client.WithLogger(o.cliLogger()),
				)
				out, err = c.Evaluate(cmd.Context(), id, action)
			} else {
				var l *lab
				l, err = openLab(o.cfg, o.cliLogger())
				if err != nil {
					return err
				}
				defer l.Close()
				out, err = l.runner.Evaluate(cmd.Context(), id, action)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			writeOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a running qalabs server")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for --remote (defaults to server.token)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}

// parseAction builds an action from its name and key=value inputs.
func parseAction(name string, pairs []string) (scenario.Action, error) {
	a := scenario.Action{Name: name, Input: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return scenario.Action{}, fmt.Errorf("invalid input %q: want key=value", p)
		}
		a.Input[k] = v
	}
	return a, nil
}

func writeOutcome(w io.Writer, out *runner.Outcome) {
	for _, e := range out.Events {
		if e.EdgeCaseID != "" {
			fmt.Fprintf(w, "[%s] %s (%s)\n", e.Kind, e.Message, e.EdgeCaseID)
			continue
		}
		fmt.Fprintf(w, "[%s] %s\n", e.Kind, e.Message)
	}
	for _, id := range out.Solved {
		fmt.Fprintf(w, "solved: %s\n", id)
	}
	p := out.Progress
	fmt.Fprintf(w, "progress: %d/%d (%d%%)\n", len(p.Solved), p.Total, p.Percent)
	if out.Completed {
		fmt.Fprintln(w, "scenario complete")
	}
}
