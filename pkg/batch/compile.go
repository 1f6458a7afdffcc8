package batch

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/SebastianScherer88/batchstep/pkg/steprun"
)

// Spec is the abstract launch request the compiler works from. It is
// assembled by the operator from step-run metadata and static operator
// configuration.
type Spec struct {
	// PipelineName and StepName feed the generated job name.
	PipelineName string
	StepName     string

	// Image is the container image reference.
	Image string

	// Command is the entrypoint command vector.
	Command []string

	// Environment is the merged environment mapping for the container.
	Environment map[string]string

	// Resources is the abstract resource request.
	Resources steprun.ResourceSettings

	// ExecutionRoleArn and JobRoleArn are the fixed IAM role references.
	ExecutionRoleArn string
	JobRoleArn       string

	// InstanceType is the EC2 instance type hint.
	InstanceType string

	// NodeCount selects single-container (1) vs multi-node (> 1) shape.
	NodeCount int

	// TimeoutSeconds bounds one attempt's wall-clock duration.
	TimeoutSeconds int
}

// Compile assembles a complete, locally validated job definition from the
// spec. All inputs except the random name suffix map deterministically onto
// the result.
//
// Violations of the service's schema constraints fail with a ConfigError
// before any network call is made.
func Compile(spec Spec, logger *zap.Logger) (*JobDefinition, error) {
	if spec.Image == "" {
		return nil, &ConfigError{Field: "image", Message: "container image reference is required"}
	}
	if spec.NodeCount < 1 {
		return nil, &ConfigError{Field: "nodeCount", Message: "node count must be at least 1"}
	}

	container := ContainerProperties{
		Image:                spec.Image,
		Command:              spec.Command,
		JobRoleArn:           spec.JobRoleArn,
		ExecutionRoleArn:     spec.ExecutionRoleArn,
		Environment:          MapEnvironment(spec.Environment),
		InstanceType:         spec.InstanceType,
		ResourceRequirements: MapResourceSettings(spec.Resources, logger),
	}

	def := &JobDefinition{
		JobDefinitionName:    GenerateJobName(spec.PipelineName, spec.StepName),
		Parameters:           map[string]string{},
		Tags:                 map[string]string{},
		RetryStrategy:        DefaultRetryStrategy(),
		Timeout:              Timeout{AttemptDurationSeconds: spec.TimeoutSeconds},
		PlatformCapabilities: []PlatformCapability{PlatformCapabilityEC2},
	}

	if spec.NodeCount == 1 {
		def.Type = JobDefinitionTypeContainer
		def.ContainerProperties = &container
	} else {
		def.Type = JobDefinitionTypeMultinode
		def.NodeProperties = &NodeProperties{
			NumNodes: spec.NodeCount,
			MainNode: 0,
			NodeRangeProperties: []NodeRangeProperty{
				{
					TargetNodes: nodeRange(spec.NodeCount),
					Container:   container,
				},
			},
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// nodeRange renders the full contiguous node range 0..n-1 as the
// comma-joined target list Batch expects.
func nodeRange(n int) string {
	indices := make([]string, n)
	for i := range indices {
		indices[i] = strconv.Itoa(i)
	}
	return strings.Join(indices, ",")
}
