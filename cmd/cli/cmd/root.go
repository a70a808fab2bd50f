// Package cmd provides the CLI commands for audit-quote.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"audit-quote/internal/config"
	"audit-quote/internal/logging"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "audit-quote",
	Short: "Estimate smart contract audit prices and delivery times",
	Long: `audit-quote prices smart contract security audits.

It turns lines of code, code complexity and audit scope into a price in USD,
a delivery estimate in days and a recommended service package.

Examples:
  audit-quote estimate --loc 4200 --complexity complex --scope defi_protocol
  audit-quote batch projects.hcl --format xlsx --out quotes.xlsx
  audit-quote interactive
  audit-quote serve`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx available to every command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.audit-quote/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with secrets (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if envFile != "" {
		config.LoadDotEnv(envFile)
	} else {
		config.LoadDotEnv()
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "audit-quote version %s\n", Version)
	},
}
