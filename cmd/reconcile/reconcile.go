package reconcile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/trackersync/internal/findings"
	"github.com/scan-io-git/trackersync/internal/reconciler"
	"github.com/scan-io-git/trackersync/internal/sarif"
	"github.com/scan-io-git/trackersync/pkg/shared/config"
	"github.com/scan-io-git/trackersync/pkg/shared/errors"
	"github.com/scan-io-git/trackersync/pkg/shared/logger"
	"github.com/scan-io-git/trackersync/pkg/tracker/rest"
)

// defaultContextLabel scopes every tracker query issued by this tool; it is
// what keeps trackersync-managed issues apart from manually filed ones.
const defaultContextLabel = "trackersync"

// RunOptions holds flags for the reconcile command.
type RunOptions struct {
	SarifPath    string `json:"sarif_path,omitempty"`
	Repository   string `json:"repository,omitempty"`
	Language     string `json:"language,omitempty"`
	Tool         string `json:"tool,omitempty"`
	ContextLabel string `json:"context_label,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	exampleReconcileUsage = `  # Reconcile a SARIF report against the tracker
  trackersync reconcile --sarif /path/to/report.sarif --repository acme/billing --language go

  # Repository may be given as a clone URL; it is normalized to namespace/name
  trackersync reconcile --sarif report.sarif --repository git@github.com:acme/billing.git --language go

  # Override the tool name recorded in the SARIF driver section
  trackersync reconcile --sarif report.sarif --repository acme/billing --language go --tool gosec

  # Using environment variables (CI)
  TRACKERSYNC_REPOSITORY=acme/billing TRACKERSYNC_LANGUAGE=go trackersync reconcile --sarif report.sarif`

	// ReconcileCmd represents the command to reconcile SARIF findings with the tracker.
	ReconcileCmd = &cobra.Command{
		Use:                   "reconcile --sarif PATH [--repository REPO] [--language LANG] [--tool TOOL] [--context-label LABEL]",
		Short:                 "Reconcile scanner findings with the issue tracker",
		Example:               exampleReconcileUsage,
		SilenceUsage:          false,
		DisableFlagsInUseLine: true,
		RunE:                  runReconcile,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runReconcile is the main execution function for the reconcile command.
func runReconcile(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "reconcile")

	ApplyEnvironmentFallbacks(&opts)

	if err := validate(&opts); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), 1)
	}

	repository, err := normalizeRepository(opts.Repository)
	if err != nil {
		lg.Error("failed to normalize repository", "repository", opts.Repository, "error", err)
		return errors.NewCommandError(fmt.Errorf("normalize repository: %w", err), 1)
	}

	toolName, list, err := sarif.CollectFindings(lg, opts.SarifPath)
	if err != nil {
		lg.Error("failed to collect findings", "sarif", opts.SarifPath, "error", err)
		return errors.NewCommandError(fmt.Errorf("collect findings: %w", err), 1)
	}
	if opts.Tool != "" {
		toolName = opts.Tool
	}
	if toolName == "" {
		return errors.NewCommandError(fmt.Errorf("tool name is missing from the SARIF report, pass --tool"), 1)
	}

	result := findings.ScanResult{
		Context: findings.ScanContext{
			Language:   opts.Language,
			Tool:       toolName,
			Repository: repository,
			Label:      opts.ContextLabel,
		},
		Findings: list,
	}

	client := rest.New(AppConfig, lg)
	worker := reconciler.New(&AppConfig.Policy, client, result, lg)
	outcome := worker.ProcessResult()

	fmt.Println(outcome.Changelog())

	if outcome.Failed() {
		return errors.NewCommandError(
			fmt.Errorf("reconciliation finished with %d error(s)", len(outcome.Exceptions)), 2)
	}
	return nil
}

func addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&opts.SarifPath, "sarif", "", "path to the SARIF report to reconcile")
	fs.StringVar(&opts.Repository, "repository", "", "repository identifier or clone URL")
	fs.StringVar(&opts.Language, "language", "", "language label for the scan context")
	fs.StringVar(&opts.Tool, "tool", "", "override the tool name from the SARIF driver")
	fs.StringVar(&opts.ContextLabel, "context-label", defaultContextLabel, "label scoping issues managed by this tool")
}

func init() {
	addFlags(ReconcileCmd.Flags())
}
