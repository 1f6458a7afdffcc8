package steprun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceSettings_Empty(t *testing.T) {
	assert.True(t, ResourceSettings{}.Empty())

	cpu := 1.0
	assert.False(t, ResourceSettings{CPUCount: &cpu}.Empty())

	gpu := 1
	assert.False(t, ResourceSettings{GPUCount: &gpu}.Empty())

	mem := 512.0
	assert.False(t, ResourceSettings{MemoryMiB: &mem}.Empty())
}

func TestSettings_WithDefaults(t *testing.T) {
	t.Run("zero value gets all defaults", func(t *testing.T) {
		s := Settings{}.WithDefaults()

		assert.Equal(t, DefaultInstanceType, s.InstanceType)
		assert.Equal(t, DefaultNodeCount, s.NodeCount)
		assert.Equal(t, DefaultTimeoutSeconds, s.TimeoutSeconds)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		s := Settings{
			InstanceType:   "m5.xlarge",
			NodeCount:      4,
			TimeoutSeconds: 600,
		}.WithDefaults()

		assert.Equal(t, "m5.xlarge", s.InstanceType)
		assert.Equal(t, 4, s.NodeCount)
		assert.Equal(t, 600, s.TimeoutSeconds)
	})

	t.Run("invalid node count is not masked", func(t *testing.T) {
		// Defaults only fill zero values; a negative count must surface
		// as a compile error downstream, not be silently corrected.
		s := Settings{NodeCount: -1}.WithDefaults()
		assert.Equal(t, -1, s.NodeCount)
	})
}
