package batch

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsbatch "github.com/aws/aws-sdk-go-v2/service/batch"
	awstypes "github.com/aws/aws-sdk-go-v2/service/batch/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultPollInterval is the fixed delay between job status queries.
const DefaultPollInterval = 10 * time.Second

// LauncherConfig configures the submission and polling engine.
type LauncherConfig struct {
	// JobQueue is the target Batch job queue.
	JobQueue string

	// PollInterval overrides the fixed delay between status queries.
	// Defaults to DefaultPollInterval.
	PollInterval time.Duration
}

// Launcher registers a compiled job definition, submits one job against it,
// and blocks until the job reaches a terminal status.
//
// A Launcher holds only read-only configuration and is safe to use
// concurrently for different launches sharing the same queue and client.
type Launcher struct {
	api      API
	queue    string
	interval time.Duration
	logger   *zap.Logger
}

// NewLauncher creates a launcher over the given Batch API surface.
func NewLauncher(api API, cfg LauncherConfig, logger *zap.Logger) (*Launcher, error) {
	if api == nil {
		return nil, &ConfigError{Field: "api", Message: "batch API client is required"}
	}
	if cfg.JobQueue == "" {
		return nil, &ConfigError{Field: "jobQueue", Message: "job queue name is required"}
	}
	if cfg.PollInterval < 0 {
		return nil, &ConfigError{Field: "pollInterval", Message: "poll interval must not be negative"}
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Launcher{
		api:      api,
		queue:    cfg.JobQueue,
		interval: cfg.PollInterval,
		logger:   logger,
	}, nil
}

// Run executes one job to completion: register, submit, then poll until the
// job succeeds or fails.
//
// The definition is validated before any network call. Registration or
// submission rejections surface as SubmissionError and are not retried. A
// failed status query surfaces as StatusQueryError; a failed job surfaces as
// JobExecutionError. Cancelling ctx aborts the local poll wait only — the
// remote job is not terminated.
func (l *Launcher) Run(ctx context.Context, def *JobDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	registered, err := l.api.RegisterJobDefinition(ctx, def.RegisterInput())
	if err != nil {
		return &SubmissionError{Op: "RegisterJobDefinition", JobName: def.JobDefinitionName, Err: err}
	}
	definitionName := aws.ToString(registered.JobDefinitionName)
	l.logger.Info("registered job definition",
		zap.String("job_definition", definitionName),
		zap.String("type", string(def.Type)))

	submitted, err := l.api.SubmitJob(ctx, &awsbatch.SubmitJobInput{
		JobName:       aws.String(def.JobDefinitionName),
		JobQueue:      aws.String(l.queue),
		JobDefinition: aws.String(definitionName),
	})
	if err != nil {
		return &SubmissionError{Op: "SubmitJob", JobName: def.JobDefinitionName, Err: err}
	}
	jobID := aws.ToString(submitted.JobId)
	l.logger.Info("submitted job",
		zap.String("job_id", jobID),
		zap.String("job_queue", l.queue))

	return l.wait(ctx, jobID)
}

// wait polls the job status at a fixed interval until a terminal status.
// There is no engine-side deadline: the per-attempt wall-clock bound is the
// definition's timeout, enforced remotely and observed through this poll.
func (l *Launcher) wait(ctx context.Context, jobID string) error {
	limiter := rate.NewLimiter(rate.Every(l.interval), 1)

	for {
		// First wait consumes the initial token immediately; every
		// subsequent wait paces the loop at the poll interval.
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		described, err := l.api.DescribeJobs(ctx, &awsbatch.DescribeJobsInput{Jobs: []string{jobID}})
		if err != nil {
			l.logger.Error("failed to describe job",
				zap.String("job_id", jobID),
				zap.String("error_code", apiErrorCode(err)),
				zap.Error(err))
			return &StatusQueryError{JobID: jobID, Err: err}
		}
		if len(described.Jobs) == 0 {
			return &StatusQueryError{JobID: jobID, Err: errors.New("job missing from describe response")}
		}

		job := described.Jobs[0]
		switch job.Status {
		case awstypes.JobStatusSucceeded:
			l.logger.Info("job completed successfully", zap.String("job_id", jobID))
			return nil
		case awstypes.JobStatusFailed:
			reason := aws.ToString(job.StatusReason)
			if reason == "" {
				reason = "Unknown"
			}
			return &JobExecutionError{JobID: jobID, Reason: reason}
		default:
			// SUBMITTED, PENDING, RUNNABLE, STARTING, RUNNING: keep polling.
			l.logger.Debug("job not terminal yet",
				zap.String("job_id", jobID),
				zap.String("status", string(job.Status)))
		}
	}
}
