// Package batch compiles containerized step launches into AWS Batch job
// definitions and runs submitted jobs to a terminal state.
//
// The package owns three concerns:
//   - Mapping abstract resource/environment settings into the Batch job
//     definition schema (resources.go, environment.go, name.go).
//   - Compiling and locally validating complete job definitions, including
//     the single-container vs multi-node shape split (definition.go,
//     compile.go).
//   - Registering, submitting, and polling one job until it succeeds or
//     fails (client.go, launcher.go).
//
// Definitions are constructed fresh per launch and never mutated after
// registration.
package batch

import (
	"fmt"
	"strings"
)

// MaxJobNameLength is the Batch service's hard limit on job names.
const MaxJobNameLength = 63

// JobDefinitionType selects the job definition shape.
type JobDefinitionType string

const (
	// JobDefinitionTypeContainer is a single-container job.
	JobDefinitionTypeContainer JobDefinitionType = "container"

	// JobDefinitionTypeMultinode is a multi-node parallel job.
	JobDefinitionTypeMultinode JobDefinitionType = "multinode"
)

// PlatformCapability selects the Batch compute platform.
type PlatformCapability string

const (
	// PlatformCapabilityEC2 runs jobs on EC2-backed compute environments.
	// Both container and multinode definitions are valid on EC2.
	PlatformCapabilityEC2 PlatformCapability = "EC2"

	// PlatformCapabilityFargate runs jobs on Fargate. Not produced by the
	// compiler in this version; the model validates it for completeness.
	PlatformCapabilityFargate PlatformCapability = "FARGATE"
)

// ResourceType identifies a Batch resource requirement dimension.
type ResourceType string

const (
	ResourceTypeVCPU   ResourceType = "VCPU"
	ResourceTypeGPU    ResourceType = "GPU"
	ResourceTypeMemory ResourceType = "MEMORY"
)

// ResourceRequirement is one typed resource entry in a container
// specification. At most one entry per type is emitted.
type ResourceRequirement struct {
	// Type is the resource dimension.
	Type ResourceType `json:"type" yaml:"type"`

	// Value is the string-encoded amount (whole vCPUs, GPU count, or MiB).
	Value string `json:"value" yaml:"value"`
}

// KeyValuePair is the Batch wire format for one environment variable.
type KeyValuePair struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Secret references a secret exposed to the container. Always empty in this
// version; carried so serialized definitions match the register schema.
type Secret struct {
	Name      string `json:"name" yaml:"name"`
	ValueFrom string `json:"valueFrom" yaml:"valueFrom"`
}

// ContainerProperties is the container specification shared by all nodes of
// a job.
type ContainerProperties struct {
	// Image is the container image reference.
	Image string `json:"image" yaml:"image"`

	// Command is the entrypoint command vector.
	Command []string `json:"command" yaml:"command"`

	// JobRoleArn is the IAM role assumed by the container runtime.
	JobRoleArn string `json:"jobRoleArn" yaml:"jobRoleArn"`

	// ExecutionRoleArn is the IAM role used to start the container.
	ExecutionRoleArn string `json:"executionRoleArn" yaml:"executionRoleArn"`

	// Environment is the mapped environment variable list.
	Environment []KeyValuePair `json:"environment,omitempty" yaml:"environment,omitempty"`

	// InstanceType hints the EC2 instance type (e.g. "m5.xlarge", "optimal").
	InstanceType string `json:"instanceType,omitempty" yaml:"instanceType,omitempty"`

	// ResourceRequirements lists the typed resource entries, in canonical
	// VCPU, GPU, MEMORY order when present.
	ResourceRequirements []ResourceRequirement `json:"resourceRequirements,omitempty" yaml:"resourceRequirements,omitempty"`

	// Secrets is always empty in this version.
	Secrets []Secret `json:"secrets,omitempty" yaml:"secrets,omitempty"`
}

// NodeRangeProperty binds a contiguous range of node indices to one
// container specification.
type NodeRangeProperty struct {
	// TargetNodes is the node range, expressed as comma-joined indices
	// (e.g. "0,1,2" for a three-node job).
	TargetNodes string `json:"targetNodes" yaml:"targetNodes"`

	// Container is the specification shared by the targeted nodes.
	Container ContainerProperties `json:"container" yaml:"container"`
}

// NodeProperties is the multi-node job shape.
type NodeProperties struct {
	// NumNodes is the total node count.
	NumNodes int `json:"numNodes" yaml:"numNodes"`

	// MainNode is the index of the coordinating node. Always 0.
	MainNode int `json:"mainNode" yaml:"mainNode"`

	// NodeRangeProperties maps node ranges to container specifications.
	// The compiler emits a single range covering all nodes.
	NodeRangeProperties []NodeRangeProperty `json:"nodeRangeProperties" yaml:"nodeRangeProperties"`
}

// RetryAction is the outcome of a matched retry condition.
type RetryAction string

const (
	RetryActionRetry RetryAction = "RETRY"
	RetryActionExit  RetryAction = "EXIT"
)

// RetryCondition is one (condition, action) rule evaluated against a failed
// attempt. Rules are evaluated in order; the first match wins.
type RetryCondition struct {
	// OnExitCode matches the container exit code. Supports a trailing "*"
	// wildcard on the service side.
	OnExitCode string `json:"onExitCode,omitempty" yaml:"onExitCode,omitempty"`

	// OnReason matches the attempt's failure reason glob.
	OnReason string `json:"onReason,omitempty" yaml:"onReason,omitempty"`

	// Action is applied when the condition matches.
	Action RetryAction `json:"action" yaml:"action"`
}

// RetryStrategy bounds attempt retries for one job.
type RetryStrategy struct {
	// Attempts is the maximum number of attempts, including the first.
	Attempts int `json:"attempts" yaml:"attempts"`

	// EvaluateOnExit is the ordered rule list; first match wins.
	EvaluateOnExit []RetryCondition `json:"evaluateOnExit" yaml:"evaluateOnExit"`
}

// DefaultRetryStrategy returns the default retry policy: retry attempts
// killed out-of-memory (exit code 137) and attempts lost to transient host
// failures, exit on anything else.
func DefaultRetryStrategy() RetryStrategy {
	return RetryStrategy{
		Attempts: 2,
		EvaluateOnExit: []RetryCondition{
			// 137 is SIGKILL, which Batch uses for out-of-memory kills.
			{OnExitCode: "137", Action: RetryActionRetry},
			{OnReason: "*Host EC2*", Action: RetryActionRetry},
			{OnExitCode: "*", Action: RetryActionExit},
		},
	}
}

// Timeout bounds one attempt's wall-clock duration. Enforced by the remote
// service, not by the polling engine.
type Timeout struct {
	AttemptDurationSeconds int `json:"attemptDurationSeconds" yaml:"attemptDurationSeconds"`
}

// JobDefinition is a compiled Batch job specification, ready for
// registration. Exactly one of ContainerProperties and NodeProperties is
// populated, matching Type.
type JobDefinition struct {
	// JobDefinitionName is the generated, length-bounded job name.
	JobDefinitionName string `json:"jobDefinitionName" yaml:"jobDefinitionName"`

	// Type is the definition shape: container or multinode.
	Type JobDefinitionType `json:"type" yaml:"type"`

	// Parameters are definition-level parameter defaults. Unused here.
	Parameters map[string]string `json:"parameters" yaml:"parameters"`

	// SchedulingPriority is ignored in FIFO queues.
	SchedulingPriority int `json:"schedulingPriority" yaml:"schedulingPriority"`

	// ContainerProperties is set for container-type definitions.
	ContainerProperties *ContainerProperties `json:"containerProperties,omitempty" yaml:"containerProperties,omitempty"`

	// NodeProperties is set for multinode-type definitions.
	NodeProperties *NodeProperties `json:"nodeProperties,omitempty" yaml:"nodeProperties,omitempty"`

	// RetryStrategy is the attempt retry policy.
	RetryStrategy RetryStrategy `json:"retryStrategy" yaml:"retryStrategy"`

	// PropagateTags controls tag propagation to spawned ECS tasks.
	PropagateTags bool `json:"propagateTags" yaml:"propagateTags"`

	// Timeout bounds one attempt's duration.
	Timeout Timeout `json:"timeout" yaml:"timeout"`

	// Tags are definition tags.
	Tags map[string]string `json:"tags" yaml:"tags"`

	// PlatformCapabilities is fixed to EC2 by the compiler.
	PlatformCapabilities []PlatformCapability `json:"platformCapabilities" yaml:"platformCapabilities"`
}

// Validate checks the definition against the service's schema constraints.
// A definition that fails validation is never sent to the service.
func (d *JobDefinition) Validate() error {
	if d.JobDefinitionName == "" {
		return &ConfigError{Field: "jobDefinitionName", Message: "job definition name is required"}
	}
	if len(d.JobDefinitionName) > MaxJobNameLength {
		return &ConfigError{
			Field:   "jobDefinitionName",
			Message: fmt.Sprintf("job definition name exceeds %d characters", MaxJobNameLength),
		}
	}

	switch d.Type {
	case JobDefinitionTypeContainer:
		if d.ContainerProperties == nil {
			return &ConfigError{Field: "containerProperties", Message: "container definitions require container properties"}
		}
		if d.NodeProperties != nil {
			return &ConfigError{Field: "nodeProperties", Message: "container definitions must not carry node properties"}
		}
	case JobDefinitionTypeMultinode:
		if d.NodeProperties == nil {
			return &ConfigError{Field: "nodeProperties", Message: "multinode definitions require node properties"}
		}
		if d.ContainerProperties != nil {
			return &ConfigError{Field: "containerProperties", Message: "multinode definitions must not carry container properties"}
		}
		if err := d.NodeProperties.validate(); err != nil {
			return err
		}
	default:
		return &ConfigError{Field: "type", Message: fmt.Sprintf("unsupported job definition type %q", d.Type)}
	}

	if d.Timeout.AttemptDurationSeconds <= 0 {
		return &ConfigError{Field: "timeout", Message: "attempt duration must be a positive number of seconds"}
	}

	for _, capability := range d.PlatformCapabilities {
		switch capability {
		case PlatformCapabilityEC2:
		case PlatformCapabilityFargate:
			// Fargate compute has no GPU devices; reject definitions that
			// request them instead of letting the service fail the job.
			if d.ContainerProperties != nil && hasGPURequirement(d.ContainerProperties.ResourceRequirements) {
				return &ConfigError{
					Field:   "resourceRequirements",
					Message: "GPU resource requirements are not supported on the FARGATE platform",
				}
			}
		default:
			return &ConfigError{Field: "platformCapabilities", Message: fmt.Sprintf("unsupported platform capability %q", capability)}
		}
	}

	return nil
}

func (p *NodeProperties) validate() error {
	if p.NumNodes < 2 {
		return &ConfigError{Field: "nodeProperties.numNodes", Message: "multinode definitions require at least two nodes"}
	}
	if p.MainNode < 0 || p.MainNode >= p.NumNodes {
		return &ConfigError{Field: "nodeProperties.mainNode", Message: "main node index must be within the node range"}
	}
	if len(p.NodeRangeProperties) == 0 {
		return &ConfigError{Field: "nodeProperties.nodeRangeProperties", Message: "multinode definitions require at least one node range"}
	}
	for _, r := range p.NodeRangeProperties {
		if strings.TrimSpace(r.TargetNodes) == "" {
			return &ConfigError{Field: "nodeProperties.nodeRangeProperties", Message: "node ranges require a target node list"}
		}
	}
	return nil
}

func hasGPURequirement(requirements []ResourceRequirement) bool {
	for _, r := range requirements {
		if r.Type == ResourceTypeGPU {
			return true
		}
	}
	return false
}
