// Package commands wires the CLI surface.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/divrecon-dev/divrecon/internal/buildinfo"
)

// NewRootCommand creates the divrecon root command.
func NewRootCommand() *cobra.Command {
	opts := &reconcileOptions{}

	cmd := &cobra.Command{
		Use:   "divrecon",
		Short: "Reconcile owner and custodian dividend records",
		Long: "Runs dividend reconciliation and writes a CSV report.\n" +
			"- Reads two semicolon-separated extracts (asset owner and custodian).\n" +
			"- Applies deterministic rules to flag breaks.\n" +
			"- Optionally classifies break rows only, up to a hard call budget.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Missing inputs show usage and exit cleanly.
			if opts.ownerPath == "" || opts.custodianPath == "" {
				return cmd.Help()
			}
			return runReconcile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ownerPath, "owner", "", "asset owner CSV (semicolon-separated)")
	cmd.Flags().StringVar(&opts.custodianPath, "custodian", "", "custodian CSV (semicolon-separated)")
	cmd.Flags().StringVar(&opts.outPath, "out", "recon_out.csv", "output CSV path")
	cmd.Flags().BoolVar(&opts.classifyBreaks, "classify", false, "add break classification columns")
	cmd.Flags().IntVar(&opts.maxCalls, "max-calls", -1, "maximum classification calls (default from config: 100)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to divrecon.yaml")
	cmd.Flags().StringVar(&opts.auditPath, "audit-log", "", "append classification attempts to this CSV")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log per-run details")

	cmd.AddCommand(newInitCommand())

	return cmd
}
