package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianScherer88/batchstep/pkg/steprun"
)

func testSpec() Spec {
	return Spec{
		PipelineName:     "training",
		StepName:         "trainer",
		Image:            "registry.example.com/steps:latest",
		Command:          []string{"python", "-m", "trainer"},
		Environment:      map[string]string{"LOG_LEVEL": "INFO"},
		ExecutionRoleArn: "arn:aws:iam::123456789012:role/ecsExecution",
		JobRoleArn:       "arn:aws:iam::123456789012:role/ecsJob",
		InstanceType:     "optimal",
		NodeCount:        1,
		TimeoutSeconds:   300,
	}
}

func TestCompile_SingleContainer(t *testing.T) {
	def, err := Compile(testSpec(), nil)
	require.NoError(t, err)

	assert.Equal(t, JobDefinitionTypeContainer, def.Type)
	require.NotNil(t, def.ContainerProperties)
	assert.Nil(t, def.NodeProperties)

	assert.Equal(t, "registry.example.com/steps:latest", def.ContainerProperties.Image)
	assert.Equal(t, []string{"python", "-m", "trainer"}, def.ContainerProperties.Command)
	assert.Equal(t, "arn:aws:iam::123456789012:role/ecsExecution", def.ContainerProperties.ExecutionRoleArn)
	assert.Equal(t, "arn:aws:iam::123456789012:role/ecsJob", def.ContainerProperties.JobRoleArn)
	assert.Equal(t, "optimal", def.ContainerProperties.InstanceType)
	assert.Equal(t, []KeyValuePair{{Name: "LOG_LEVEL", Value: "INFO"}}, def.ContainerProperties.Environment)
	assert.Empty(t, def.ContainerProperties.Secrets)

	assert.Equal(t, DefaultRetryStrategy(), def.RetryStrategy)
	assert.Equal(t, 300, def.Timeout.AttemptDurationSeconds)
	assert.Equal(t, []PlatformCapability{PlatformCapabilityEC2}, def.PlatformCapabilities)
}

func TestCompile_Multinode(t *testing.T) {
	for _, nodeCount := range []int{2, 3, 8} {
		t.Run(fmt.Sprintf("%d nodes", nodeCount), func(t *testing.T) {
			spec := testSpec()
			spec.NodeCount = nodeCount

			def, err := Compile(spec, nil)
			require.NoError(t, err)

			assert.Equal(t, JobDefinitionTypeMultinode, def.Type)
			assert.Nil(t, def.ContainerProperties)
			require.NotNil(t, def.NodeProperties)

			assert.Equal(t, nodeCount, def.NodeProperties.NumNodes)
			assert.Equal(t, 0, def.NodeProperties.MainNode)
			require.Len(t, def.NodeProperties.NodeRangeProperties, 1)
			assert.Equal(t, nodeRange(nodeCount), def.NodeProperties.NodeRangeProperties[0].TargetNodes)
			assert.Equal(t, spec.Image, def.NodeProperties.NodeRangeProperties[0].Container.Image)
		})
	}
}

func TestNodeRange(t *testing.T) {
	assert.Equal(t, "0", nodeRange(1))
	assert.Equal(t, "0,1", nodeRange(2))
	assert.Equal(t, "0,1,2,3,4", nodeRange(5))
}

func TestCompile_InvalidSpecs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Spec)
		wantErr string
	}{
		{
			name:    "zero node count",
			mutate:  func(s *Spec) { s.NodeCount = 0 },
			wantErr: "node count must be at least 1",
		},
		{
			name:    "negative node count",
			mutate:  func(s *Spec) { s.NodeCount = -2 },
			wantErr: "node count must be at least 1",
		},
		{
			name:    "missing image",
			mutate:  func(s *Spec) { s.Image = "" },
			wantErr: "container image reference is required",
		},
		{
			name:    "zero timeout",
			mutate:  func(s *Spec) { s.TimeoutSeconds = 0 },
			wantErr: "positive number of seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(&spec)

			def, err := Compile(spec, nil)
			assert.Nil(t, def)
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "expected a ConfigError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompile_ResourceMapping(t *testing.T) {
	spec := testSpec()
	memory := steprun.MustParseMemory("512MiB")
	spec.Resources = steprun.ResourceSettings{
		CPUCount:  floatPtr(2.3),
		MemoryMiB: &memory,
	}

	def, err := Compile(spec, nil)
	require.NoError(t, err)
	require.NotNil(t, def.ContainerProperties)

	assert.Equal(t, []ResourceRequirement{
		{Type: ResourceTypeVCPU, Value: "3"},
		{Type: ResourceTypeMemory, Value: "512"},
	}, def.ContainerProperties.ResourceRequirements)
}

func TestCompile_DeterministicApartFromName(t *testing.T) {
	first, err := Compile(testSpec(), nil)
	require.NoError(t, err)
	second, err := Compile(testSpec(), nil)
	require.NoError(t, err)

	first.JobDefinitionName = ""
	second.JobDefinitionName = ""
	assert.Equal(t, first, second)
}

func TestCompile_NameWithinLimit(t *testing.T) {
	spec := testSpec()
	spec.PipelineName = "a-very-long-pipeline-name-that-keeps-going-and-going"
	spec.StepName = "an-even-longer-step-name-for-good-measure"

	def, err := Compile(spec, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(def.JobDefinitionName), MaxJobNameLength)
}
