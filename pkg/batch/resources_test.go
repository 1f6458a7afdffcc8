package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SebastianScherer88/batchstep/pkg/steprun"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestMapResourceSettings(t *testing.T) {
	tests := []struct {
		name            string
		settings        steprun.ResourceSettings
		want            []ResourceRequirement
		wantDiagnostics int
	}{
		{
			name:     "all fields unset",
			settings: steprun.ResourceSettings{},
			want:     nil,
		},
		{
			name:     "integer cpu only",
			settings: steprun.ResourceSettings{CPUCount: floatPtr(2)},
			want: []ResourceRequirement{
				{Type: ResourceTypeVCPU, Value: "2"},
			},
		},
		{
			name:     "fractional cpu rounds up with diagnostic",
			settings: steprun.ResourceSettings{CPUCount: floatPtr(2.3)},
			want: []ResourceRequirement{
				{Type: ResourceTypeVCPU, Value: "3"},
			},
			wantDiagnostics: 1,
		},
		{
			name:     "small fractional cpu rounds up to one",
			settings: steprun.ResourceSettings{CPUCount: floatPtr(0.4)},
			want: []ResourceRequirement{
				{Type: ResourceTypeVCPU, Value: "1"},
			},
			wantDiagnostics: 1,
		},
		{
			name:     "gpu only",
			settings: steprun.ResourceSettings{GPUCount: intPtr(1)},
			want: []ResourceRequirement{
				{Type: ResourceTypeGPU, Value: "1"},
			},
		},
		{
			name:     "memory truncates to whole mebibytes",
			settings: steprun.ResourceSettings{MemoryMiB: floatPtr(512.9)},
			want: []ResourceRequirement{
				{Type: ResourceTypeMemory, Value: "512"},
			},
		},
		{
			name: "all fields emit canonical order",
			settings: steprun.ResourceSettings{
				CPUCount:  floatPtr(1.5),
				GPUCount:  intPtr(2),
				MemoryMiB: floatPtr(1024),
			},
			want: []ResourceRequirement{
				{Type: ResourceTypeVCPU, Value: "2"},
				{Type: ResourceTypeGPU, Value: "2"},
				{Type: ResourceTypeMemory, Value: "1024"},
			},
			wantDiagnostics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			got := MapResourceSettings(tt.settings, zap.New(core))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDiagnostics, logs.Len(),
				"unexpected number of conversion diagnostics")
		})
	}
}

func TestMapResourceSettings_NilLogger(t *testing.T) {
	require.NotPanics(t, func() {
		MapResourceSettings(steprun.ResourceSettings{CPUCount: floatPtr(1.5)}, nil)
	})
}
