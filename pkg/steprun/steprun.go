// Package steprun models the per-step metadata the batch operator consumes:
// resource settings, step-level settings, and run identity. The operator
// reads these values; it never mutates them.
package steprun

import "context"

// Default step settings applied by Settings.WithDefaults.
const (
	// DefaultInstanceType lets Batch pick an instance type from the compute
	// environment's allowed set.
	DefaultInstanceType = "optimal"

	// DefaultNodeCount runs steps as single-container jobs.
	DefaultNodeCount = 1

	// DefaultTimeoutSeconds bounds one attempt's wall-clock duration.
	DefaultTimeoutSeconds = 120
)

// ResourceSettings is the abstract per-step resource request. All fields are
// optional; unset fields are omitted from the compiled definition so the
// remote service applies its own defaults.
type ResourceSettings struct {
	// CPUCount is the requested CPU count. Fractional values are rounded up
	// during mapping.
	CPUCount *float64

	// GPUCount is the requested GPU device count.
	GPUCount *int

	// MemoryMiB is the requested memory in mebibytes. Use ParseMemory to
	// convert human-readable sizes.
	MemoryMiB *float64
}

// Empty returns true when no resource field is set.
func (s ResourceSettings) Empty() bool {
	return s.CPUCount == nil && s.GPUCount == nil && s.MemoryMiB == nil
}

// Settings are the step-level operator settings.
type Settings struct {
	// InstanceType is the EC2 instance type hint passed to Batch.
	InstanceType string

	// NodeCount selects single-container (1) vs multi-node (> 1) execution.
	NodeCount int

	// TimeoutSeconds bounds one attempt's wall-clock duration.
	TimeoutSeconds int

	// Environment holds step-scoped environment variables, merged under the
	// launch environment.
	Environment map[string]string
}

// WithDefaults returns a copy with zero-valued fields replaced by defaults.
func (s Settings) WithDefaults() Settings {
	if s.InstanceType == "" {
		s.InstanceType = DefaultInstanceType
	}
	if s.NodeCount == 0 {
		s.NodeCount = DefaultNodeCount
	}
	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return s
}

// Info identifies one step run and carries everything the operator needs to
// compile its job definition.
type Info struct {
	// PipelineName is the owning pipeline's name.
	PipelineName string

	// StepRunID identifies this step run; a Resolver turns it into a
	// display name.
	StepRunID string

	// StepName is the step's display name. Used directly when no Resolver
	// is configured.
	StepName string

	// Image is the resolved container image reference for this step.
	Image string

	// Resources is the abstract resource request.
	Resources ResourceSettings

	// Settings are the step-level operator settings.
	Settings Settings
}

// Resolver resolves run metadata that is not known locally.
//
// Implementations typically query the pipeline metadata store.
type Resolver interface {
	// StepName resolves a step-run identifier to the step's display name.
	StepName(ctx context.Context, stepRunID string) (string, error)
}
