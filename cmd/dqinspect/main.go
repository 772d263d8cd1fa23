package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dqcli/internal/config"
	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
	exitIssuesFound = 3
)

// errIssuesFound is returned by inspect --fail-on-issues when the report is
// not clean
var errIssuesFound = errors.New("issues found")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errIssuesFound):
		return exitIssuesFound
	case apperrors.IsType(err, apperrors.ErrTypeConfig):
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitConfigError
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
}

// rootOptions holds flags shared by every subcommand
type rootOptions struct {
	configPath string
}

// loadConfig reads the config file named by --config, or the default
// locations when it is empty
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dqinspect",
		Short: "Data quality inspector for tabular datasets",
		Long: `dqinspect runs a fixed set of read-only quality scans over a CSV or
Excel table and reports what it finds: missing values, mixed types,
duplicate rows and keys, formatting inconsistencies, constant and empty
columns, statistical outliers, domain-rule violations and schema drift.

The data is never modified.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(contracts.GetVersionString() + "\n")

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: dqinspect.yaml or configs/dqinspect.yaml)")

	cmd.AddCommand(
		newInspectCmd(opts, stdout, stderr),
		newServeCmd(opts),
		newVersionCmd(stdout),
	)
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := contracts.GetVersionInfo()
			fmt.Fprintf(stdout, "%s (%s)\n", contracts.GetVersionString(), info.Stage)
			fmt.Fprintf(stdout, "  commit:  %s\n", info.GitCommit)
			fmt.Fprintf(stdout, "  built:   %s\n", info.BuildTime)
			fmt.Fprintf(stdout, "  go:      %s %s/%s\n", info.GoVersion, info.OS, info.Architecture)
			fmt.Fprintf(stdout, "  report:  %s\n", info.ReportFormat)
			return nil
		},
	}
}
