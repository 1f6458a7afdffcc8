package batch

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/SebastianScherer88/batchstep/pkg/steprun"
)

// MapResourceSettings converts abstract resource settings into the Batch
// resource requirement list.
//
// Batch accepts only whole vCPU counts, so fractional CPU requests are
// rounded up; rounding up never under-provisions, so the conversion is
// logged and not treated as an error. Memory is emitted in MiB, truncated
// to an integer. Entries are emitted in canonical VCPU, GPU, MEMORY order.
// Settings with no resource fields set map to an empty list, leaving the
// service to apply its own defaults.
func MapResourceSettings(settings steprun.ResourceSettings, logger *zap.Logger) []ResourceRequirement {
	if logger == nil {
		logger = zap.NewNop()
	}

	if settings.Empty() {
		return nil
	}

	var requirements []ResourceRequirement

	if settings.CPUCount != nil {
		requested := *settings.CPUCount
		provisioned := int(math.Ceil(requested))
		if float64(provisioned) != requested {
			logger.Info("rounded fractional cpu request up to a whole vCPU count",
				zap.Float64("requested", requested),
				zap.Int("provisioned", provisioned))
		}
		requirements = append(requirements, ResourceRequirement{
			Type:  ResourceTypeVCPU,
			Value: strconv.Itoa(provisioned),
		})
	}

	if settings.GPUCount != nil {
		requirements = append(requirements, ResourceRequirement{
			Type:  ResourceTypeGPU,
			Value: strconv.Itoa(*settings.GPUCount),
		})
	}

	if settings.MemoryMiB != nil {
		requirements = append(requirements, ResourceRequirement{
			Type:  ResourceTypeMemory,
			Value: strconv.Itoa(int(*settings.MemoryMiB)),
		})
	}

	return requirements
}
