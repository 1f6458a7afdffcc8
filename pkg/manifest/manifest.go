// Package manifest provides loading and validation of batchstep step
// manifests.
//
// A step manifest is a YAML or JSON file describing one step launch: the
// pipeline/step identity, container image and command, resource request,
// step settings, and the operator configuration to launch with.
//
// Example manifest (YAML):
//
//	version: "1.0"
//	pipeline: training-pipeline
//	step:
//	  name: trainer
//	  image: 123456789012.dkr.ecr.us-east-1.amazonaws.com/steps:latest
//	  command: ["python", "-m", "trainer"]
//	  resources:
//	    cpu_count: 2.5
//	    memory: 512MiB
//	  node_count: 1
//	  timeout_seconds: 300
//	operator:
//	  name: batch-operator
//	  job_queue: ml-queue
//	  execution_role: arn:aws:iam::123456789012:role/ecsExecution
package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/SebastianScherer88/batchstep/pkg/batch"
	"github.com/SebastianScherer88/batchstep/pkg/operator"
	"github.com/SebastianScherer88/batchstep/pkg/steprun"
)

// Version is the supported manifest schema version.
const Version = "1.0"

// Manifest represents a validated step manifest.
type Manifest struct {
	// Version is the manifest schema version. Must be "1.0".
	Version string `json:"version" yaml:"version"`

	// Pipeline is the owning pipeline's name.
	Pipeline string `json:"pipeline" yaml:"pipeline"`

	// Step describes the step to launch.
	Step StepConfig `json:"step" yaml:"step"`

	// Operator configures the launching operator.
	Operator OperatorConfig `json:"operator" yaml:"operator"`
}

// StepConfig describes one step launch.
type StepConfig struct {
	// Name is the step's display name.
	Name string `json:"name" yaml:"name"`

	// RunID is the step-run identifier, when launched from run metadata.
	// Optional; Name is used directly when unset.
	RunID string `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	// Image is the container image reference.
	Image string `json:"image" yaml:"image"`

	// Command is the entrypoint command vector.
	Command []string `json:"command" yaml:"command"`

	// Environment holds step-scoped environment variables. Optional.
	Environment map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// Resources is the abstract resource request. Optional.
	Resources ResourcesConfig `json:"resources,omitempty" yaml:"resources,omitempty"`

	// InstanceType hints the EC2 instance type. Default: "optimal".
	InstanceType string `json:"instance_type,omitempty" yaml:"instance_type,omitempty"`

	// NodeCount selects single-container (1) vs multi-node (> 1) jobs.
	// Default: 1.
	NodeCount int `json:"node_count,omitempty" yaml:"node_count,omitempty"`

	// TimeoutSeconds bounds one attempt's duration. Default: 120.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// ResourcesConfig is the manifest form of the resource request. All fields
// are optional.
type ResourcesConfig struct {
	// CPUCount is the requested CPU count; fractional values round up.
	CPUCount *float64 `json:"cpu_count,omitempty" yaml:"cpu_count,omitempty"`

	// GPUCount is the requested GPU device count.
	GPUCount *int `json:"gpu_count,omitempty" yaml:"gpu_count,omitempty"`

	// Memory is a human-readable memory size: "512MiB", "2GB".
	Memory string `json:"memory,omitempty" yaml:"memory,omitempty"`
}

// OperatorConfig is the manifest form of the operator configuration.
type OperatorConfig struct {
	// Name identifies the operator instance. Default: "aws-batch".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// JobQueue is the Batch job queue. Required.
	JobQueue string `json:"job_queue" yaml:"job_queue"`

	// ExecutionRole is the ECS execution role ARN. Optional.
	ExecutionRole string `json:"execution_role,omitempty" yaml:"execution_role,omitempty"`

	// JobRole is the container runtime role ARN. Optional.
	JobRole string `json:"job_role,omitempty" yaml:"job_role,omitempty"`

	// PollIntervalSeconds overrides the status poll cadence. Optional.
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty"`

	// Region is the AWS region. Optional.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Profile is the AWS credential profile name. Optional.
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`

	// Endpoint is a custom Batch endpoint for local emulators. Optional.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// ValidationError represents a single validation issue.
type ValidationError struct {
	// Path locates the problematic field (e.g. "step.image").
	Path string

	// Message describes the validation failure.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("manifest validation failed with %d errors:\n", len(e)))
	for i, err := range e {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validate checks the manifest for structural problems. All issues are
// collected and reported together.
func (m *Manifest) Validate() error {
	var errs ValidationErrors

	if m.Version != Version {
		errs = append(errs, ValidationError{Path: "version", Message: fmt.Sprintf("unsupported version %q, expected %q", m.Version, Version)})
	}
	if m.Pipeline == "" {
		errs = append(errs, ValidationError{Path: "pipeline", Message: "pipeline name is required"})
	}
	if m.Step.Name == "" && m.Step.RunID == "" {
		errs = append(errs, ValidationError{Path: "step.name", Message: "step name or run_id is required"})
	}
	if m.Step.Image == "" {
		errs = append(errs, ValidationError{Path: "step.image", Message: "container image is required"})
	}
	if len(m.Step.Command) == 0 {
		errs = append(errs, ValidationError{Path: "step.command", Message: "entrypoint command is required"})
	}
	if m.Step.NodeCount < 0 {
		errs = append(errs, ValidationError{Path: "step.node_count", Message: "node count must not be negative"})
	}
	if m.Step.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{Path: "step.timeout_seconds", Message: "timeout must not be negative"})
	}
	if m.Step.Resources.Memory != "" {
		if _, err := steprun.ParseMemory(m.Step.Resources.Memory); err != nil {
			errs = append(errs, ValidationError{Path: "step.resources.memory", Message: err.Error()})
		}
	}
	if m.Operator.JobQueue == "" {
		errs = append(errs, ValidationError{Path: "operator.job_queue", Message: "job queue name is required"})
	}
	if m.Operator.PollIntervalSeconds < 0 {
		errs = append(errs, ValidationError{Path: "operator.poll_interval_seconds", Message: "poll interval must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// applyDefaults fills optional fields after a successful Validate.
func (m *Manifest) applyDefaults() {
	if m.Operator.Name == "" {
		m.Operator.Name = "aws-batch"
	}
}

// Info builds the step-run metadata the operator consumes.
func (m *Manifest) Info() (*steprun.Info, error) {
	resources := steprun.ResourceSettings{
		CPUCount: m.Step.Resources.CPUCount,
		GPUCount: m.Step.Resources.GPUCount,
	}
	if m.Step.Resources.Memory != "" {
		mib, err := steprun.ParseMemory(m.Step.Resources.Memory)
		if err != nil {
			return nil, err
		}
		resources.MemoryMiB = &mib
	}

	return &steprun.Info{
		PipelineName: m.Pipeline,
		StepRunID:    m.Step.RunID,
		StepName:     m.Step.Name,
		Image:        m.Step.Image,
		Resources:    resources,
		Settings: steprun.Settings{
			InstanceType:   m.Step.InstanceType,
			NodeCount:      m.Step.NodeCount,
			TimeoutSeconds: m.Step.TimeoutSeconds,
			Environment:    m.Step.Environment,
		},
	}, nil
}

// OperatorConfig builds the operator configuration.
func (m *Manifest) OperatorConfig() operator.Config {
	return operator.Config{
		Name:          m.Operator.Name,
		ExecutionRole: m.Operator.ExecutionRole,
		JobRole:       m.Operator.JobRole,
		JobQueue:      m.Operator.JobQueue,
		PollInterval:  time.Duration(m.Operator.PollIntervalSeconds) * time.Second,
		Client: batch.ClientConfig{
			Region:   m.Operator.Region,
			Profile:  m.Operator.Profile,
			Endpoint: m.Operator.Endpoint,
		},
	}
}
