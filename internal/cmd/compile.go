package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SebastianScherer88/batchstep/internal/observability"
	"github.com/SebastianScherer88/batchstep/pkg/batch"
	"github.com/SebastianScherer88/batchstep/pkg/manifest"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a step manifest into a job definition without submitting",
	Long: `Compile the step described in a manifest into the AWS Batch job
definition document it would register, and print it as JSON.

No network calls are made; this validates the manifest and shows the exact
definition a launch would submit (modulo the random job name suffix).

Example:
  batchstep compile --manifest step.yaml`,
	RunE: runCompile,
}

var compileManifestPath string

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileManifestPath, "manifest", "m", "", "Path to step manifest (required)")
	_ = compileCmd.MarkFlagRequired("manifest")
}

func runCompile(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(compileManifestPath)
	if err != nil {
		observability.CLILogger.Error("Failed to load manifest",
			zap.String("path", compileManifestPath),
			zap.Error(err))
		return err
	}

	info, err := m.Info()
	if err != nil {
		return err
	}

	settings := info.Settings.WithDefaults()
	cfg := m.OperatorConfig()

	def, err := batch.Compile(batch.Spec{
		PipelineName:     info.PipelineName,
		StepName:         info.StepName,
		Image:            info.Image,
		Command:          m.Step.Command,
		Environment:      settings.Environment,
		Resources:        info.Resources,
		ExecutionRoleArn: cfg.ExecutionRole,
		JobRoleArn:       cfg.JobRole,
		InstanceType:     settings.InstanceType,
		NodeCount:        settings.NodeCount,
		TimeoutSeconds:   settings.TimeoutSeconds,
	}, observability.CLILogger)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
