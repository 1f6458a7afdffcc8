// Package operator runs containerized pipeline steps as AWS Batch jobs.
//
// The operator compiles step-run metadata into a Batch job definition,
// submits one job per launch, and blocks until the job reaches a terminal
// state. Artifact storage, image building, and credential resolution are
// external collaborators consumed through narrow interfaces.
package operator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SebastianScherer88/batchstep/pkg/batch"
	"github.com/SebastianScherer88/batchstep/pkg/steprun"
)

// Operator launches pipeline steps on AWS Batch.
//
// An Operator holds read-only configuration and is safe to invoke
// concurrently for different step runs sharing the same queue and client.
type Operator struct {
	config   Config
	launcher *batch.Launcher
	resolver steprun.Resolver
	logger   *zap.Logger
}

// New creates a step operator over the given Batch API surface.
//
// resolver may be nil, in which case step display names are taken from the
// run info directly. logger may be nil for silent operation.
func New(cfg Config, api batch.API, resolver steprun.Resolver, logger *zap.Logger) (*Operator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	launcher, err := batch.NewLauncher(api, batch.LauncherConfig{
		JobQueue:     cfg.JobQueue,
		PollInterval: cfg.PollInterval,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Operator{
		config:   cfg,
		launcher: launcher,
		resolver: resolver,
		logger:   logger,
	}, nil
}

// Launch runs one step as a Batch job and blocks until it completes.
//
// It returns nil when the job succeeds. Failures surface as the batch
// package's error taxonomy: ConfigError before any network call,
// SubmissionError on register/submit rejection, StatusQueryError on a failed
// poll, JobExecutionError when the remote job fails.
func (o *Operator) Launch(ctx context.Context, info *steprun.Info, entrypointCommand []string, environment map[string]string) error {
	launchID := uuid.NewString()
	logger := o.logger.With(
		zap.String("launch_id", launchID),
		zap.String("pipeline", info.PipelineName),
		zap.String("step_run_id", info.StepRunID))

	stepName, err := o.stepName(ctx, info)
	if err != nil {
		return err
	}

	settings := info.Settings.WithDefaults()

	spec := batch.Spec{
		PipelineName:     info.PipelineName,
		StepName:         stepName,
		Image:            info.Image,
		Command:          entrypointCommand,
		Environment:      mergeEnvironment(settings.Environment, environment),
		Resources:        info.Resources,
		ExecutionRoleArn: o.config.ExecutionRole,
		JobRoleArn:       o.config.JobRole,
		InstanceType:     settings.InstanceType,
		NodeCount:        settings.NodeCount,
		TimeoutSeconds:   settings.TimeoutSeconds,
	}

	def, err := batch.Compile(spec, logger)
	if err != nil {
		return err
	}

	logger.Info("launching step",
		zap.String("step", stepName),
		zap.String("job_definition", def.JobDefinitionName),
		zap.Int("node_count", settings.NodeCount))

	return o.launcher.Run(ctx, def)
}

func (o *Operator) stepName(ctx context.Context, info *steprun.Info) (string, error) {
	if o.resolver == nil {
		return info.StepName, nil
	}
	return o.resolver.StepName(ctx, info.StepRunID)
}

// mergeEnvironment layers the launch environment over the step-scoped
// settings environment; launch values win on conflict.
func mergeEnvironment(settings, launch map[string]string) map[string]string {
	if len(settings) == 0 {
		return launch
	}
	merged := make(map[string]string, len(settings)+len(launch))
	for k, v := range settings {
		merged[k] = v
	}
	for k, v := range launch {
		merged[k] = v
	}
	return merged
}
