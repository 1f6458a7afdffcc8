package operator

import (
	"time"

	"github.com/SebastianScherer88/batchstep/pkg/batch"
)

// Config is the operator's static configuration, resolved once and treated
// as read-only across launches.
//
// The operator targets ECS-backed, EC2 compute environments: EC2 keeps
// container and multinode definitions interchangeable, which Fargate does
// not.
type Config struct {
	// Name identifies this operator instance; deployments reference it to
	// mark steps for Batch execution.
	Name string `json:"name" yaml:"name"`

	// ExecutionRole is the ECS execution role ARN used to start Batch jobs
	// as ECS tasks. Optional; the compute environment default applies when
	// unset.
	ExecutionRole string `json:"execution_role,omitempty" yaml:"execution_role,omitempty"`

	// JobRole is the IAM role ARN assumed by the container runtime inside
	// the task. Optional.
	JobRole string `json:"job_role,omitempty" yaml:"job_role,omitempty"`

	// JobQueue is the Batch job queue submissions target. Required.
	JobQueue string `json:"job_queue" yaml:"job_queue"`

	// PollInterval overrides the delay between job status queries.
	// Defaults to batch.DefaultPollInterval.
	PollInterval time.Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`

	// Client configures the AWS connection.
	Client batch.ClientConfig `json:"client,omitempty" yaml:"client,omitempty"`
}

// Validate checks the operator configuration.
func (c Config) Validate() error {
	if c.Name == "" {
		return &batch.ConfigError{Field: "name", Message: "operator name is required"}
	}
	if c.JobQueue == "" {
		return &batch.ConfigError{Field: "job_queue", Message: "job queue name is required"}
	}
	return c.Client.Validate()
}
