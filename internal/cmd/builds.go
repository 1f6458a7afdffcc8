package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SebastianScherer88/batchstep/internal/observability"
	"github.com/SebastianScherer88/batchstep/pkg/manifest"
	"github.com/SebastianScherer88/batchstep/pkg/operator"
)

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List the image builds a deployment requires",
	Long: `List the image builds required before launching a deployment: one
build per step bound to the batch operator, printed as JSON.

Example:
  batchstep builds --deployment deployment.yaml
  batchstep builds --deployment deployment.yaml --operator my-batch-operator`,
	RunE: runBuilds,
}

var (
	buildsDeploymentPath string
	buildsOperatorName   string
)

func init() {
	rootCmd.AddCommand(buildsCmd)

	buildsCmd.Flags().StringVarP(&buildsDeploymentPath, "deployment", "d", "", "Path to deployment manifest (required)")
	buildsCmd.Flags().StringVar(&buildsOperatorName, "operator", "", "Operator name steps are bound to (default from config)")
	_ = buildsCmd.MarkFlagRequired("deployment")
}

func runBuilds(cmd *cobra.Command, args []string) error {
	d, err := manifest.LoadDeployment(buildsDeploymentPath)
	if err != nil {
		observability.CLILogger.Error("Failed to load deployment",
			zap.String("path", buildsDeploymentPath),
			zap.Error(err))
		return err
	}

	operatorName := buildsOperatorName
	if operatorName == "" {
		operatorName = viper.GetString("operator.name")
	}

	deployment := operator.Deployment{Steps: make(map[string]operator.DeploymentStep, len(d.Steps))}
	for name, step := range d.Steps {
		deployment.Steps[name] = operator.DeploymentStep{StepOperator: step.StepOperator}
	}

	builds := operator.DockerBuildsFor(operatorName, deployment)
	observability.CLILogger.Debug("Resolved required builds",
		zap.String("operator", operatorName),
		zap.Int("count", len(builds)))

	out, err := json.MarshalIndent(builds, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
