package workload

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ArrivalSampler generates gaps between consecutive generated requests.
type ArrivalSampler interface {
	// SampleGap returns the next inter-arrival gap in ticks.
	// Always returns a positive value (>= 1).
	SampleGap(rng *rand.Rand) int64
}

// PoissonSampler generates exponentially-distributed gaps (CV=1).
type PoissonSampler struct {
	meanGap float64
}

func (s *PoissonSampler) SampleGap(rng *rand.Rand) int64 {
	gap := int64(rng.ExpFloat64() * s.meanGap)
	if gap < 1 {
		return 1
	}
	return gap
}

// ConstantSampler spaces requests evenly, rounding the mean gap to whole ticks.
type ConstantSampler struct {
	gap int64
}

func (s *ConstantSampler) SampleGap(_ *rand.Rand) int64 {
	return s.gap
}

// NewArrivalSampler creates an ArrivalSampler from spec.
func NewArrivalSampler(spec ArrivalSpec) ArrivalSampler {
	switch spec.Process {
	case "constant":
		gap := int64(math.Round(spec.MeanGap))
		if gap < 1 {
			gap = 1
		}
		return &ConstantSampler{gap: gap}
	case "poisson":
		return &PoissonSampler{meanGap: spec.MeanGap}
	default:
		logrus.Warnf("unknown arrival process %q, falling back to poisson", spec.Process)
		return &PoissonSampler{meanGap: spec.MeanGap}
	}
}
