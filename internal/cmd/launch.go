package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SebastianScherer88/batchstep/internal/observability"
	"github.com/SebastianScherer88/batchstep/pkg/batch"
	"github.com/SebastianScherer88/batchstep/pkg/manifest"
	"github.com/SebastianScherer88/batchstep/pkg/operator"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Submit a step to AWS Batch and wait for completion",
	Long: `Submit the step described in a manifest to AWS Batch and block until
the job reaches a terminal state.

The command exits 0 when the job succeeds. A failed job, a rejected
submission, or a failed status query exits non-zero with the failure reason.

Example:
  batchstep launch --manifest step.yaml
  batchstep launch --manifest step.yaml --verbose`,
	RunE: runLaunch,
}

var launchManifestPath string

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().StringVarP(&launchManifestPath, "manifest", "m", "", "Path to step manifest (required)")
	_ = launchCmd.MarkFlagRequired("manifest")
}

func runLaunch(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(launchManifestPath)
	if err != nil {
		observability.CLILogger.Error("Failed to load manifest",
			zap.String("path", launchManifestPath),
			zap.Error(err))
		return err
	}

	observability.CLILogger.Debug("Loaded manifest",
		zap.String("path", launchManifestPath),
		zap.String("pipeline", m.Pipeline),
		zap.String("step", m.Step.Name),
		zap.String("job_queue", m.Operator.JobQueue))

	info, err := m.Info()
	if err != nil {
		return err
	}

	cfg := m.OperatorConfig()
	client, err := batch.NewClient(cmd.Context(), cfg.Client)
	if err != nil {
		observability.CLILogger.Error("Failed to create batch client", zap.Error(err))
		return err
	}

	op, err := operator.New(cfg, client, nil, observability.CLILogger)
	if err != nil {
		return err
	}

	if err := op.Launch(cmd.Context(), info, m.Step.Command, nil); err != nil {
		var execErr *batch.JobExecutionError
		if errors.As(err, &execErr) {
			observability.CLILogger.Error("Step failed",
				zap.String("job_id", execErr.JobID),
				zap.String("reason", execErr.Reason))
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Step %s completed successfully\n", info.StepName)
	return nil
}
