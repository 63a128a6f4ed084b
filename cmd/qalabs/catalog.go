package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/letsconfuse/manualQaLabs/pkg/bank"
	"github.com/letsconfuse/manualQaLabs/pkg/registry"
)

func newCatalogCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export and validate scenario catalog overrides",
	}
	cmd.AddCommand(newCatalogExportCmd(o), newCatalogValidateCmd())
	return cmd
}

func newCatalogExportCmd(o *rootOptions) *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as a bank file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := bank.ParseFormat(format)
			if err != nil {
				return err
			}
			l, err := openLab(o.cfg, o.cliLogger())
			if err != nil {
				return err
			}
			defer l.Close()

			file := bank.Export("qalabs", l.registry.Definitions())

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				out, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer out.Close()
				w = out
			}
			return bank.Write(w, file, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "bank format (yaml, json)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (defaults to stdout)")
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a bank file against the builtin catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := bank.ValidateFileWith(args[0], registry.Builtin())
			for _, e := range errs {
				fmt.Fprintln(cmd.OutOrStdout(), e.Error())
			}
			if len(errs) > 0 {
				return fmt.Errorf("%s: %d problem(s)", args[0], len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}
