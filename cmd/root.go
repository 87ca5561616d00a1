package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/trackersync/cmd/reconcile"
	"github.com/scan-io-git/trackersync/cmd/version"
	"github.com/scan-io-git/trackersync/pkg/shared/config"
	sharederrors "github.com/scan-io-git/trackersync/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "trackersync [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Trackersync reconciles scanner findings with an external issue tracker.",
		Long: `Trackersync maps every distinct scanner finding to exactly one tracked issue:
	it creates issues for new findings, reopens issues whose problems recurred,
	closes issues whose findings disappeared, and throttles repeated notifications.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(reconcile.ReconcileCmd)
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		if cmdErr, ok := err.(*sharederrors.CommandError); ok {
			os.Exit(cmdErr.ExitCode)
		}
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	reconcile.Init(AppConfig)
}
