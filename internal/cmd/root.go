// Package cmd implements the batchstep command line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SebastianScherer88/batchstep/internal/observability"
)

// versionInfo holds build-time version metadata, set via SetVersionInfo.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata injected by the release process.
func SetVersionInfo(version, commit, buildDate string) {
	if version != "" || commit != "" || buildDate != "" {
		versionInfo.Version = version
		versionInfo.Commit = commit
		versionInfo.BuildDate = buildDate
	}
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)",
		versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
}

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "batchstep",
	Short: "Run containerized pipeline steps on AWS Batch",
	Long: `batchstep compiles a step manifest into an AWS Batch job definition,
submits it to a job queue, and blocks until the job reaches a terminal state.

Commands:
  launch   Submit a step and wait for completion
  compile  Compile and print the job definition without submitting
  builds   List the image builds a deployment requires`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initRootConfig(); err != nil {
			return err
		}
		return observability.InitCLILogger(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to batchstep config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)",
		versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
}

// initRootConfig wires viper: explicit config file, BATCHSTEP_* env
// overrides, and defaults.
func initRootConfig() error {
	viper.SetDefault("operator.name", "aws-batch")

	viper.SetEnvPrefix("BATCHSTEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
	return nil
}

// Execute runs the root command. Called once from main.
func Execute() {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
