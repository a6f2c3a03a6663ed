package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/pulse-sim/pulse-sim/sim"
)

// GenerateSpec describes a seeded burst of synthetic clicks. The same spec
// always produces the same events.
type GenerateSpec struct {
	Seed       int64    `yaml:"seed"`
	Count      int      `yaml:"count"`
	RatePerSec float64  `yaml:"rate_per_sec"`
	Process    string   `yaml:"process"`        // poisson, gamma or constant
	CV         *float64 `yaml:"cv,omitempty"`   // gamma only; default 1
	StartMs    int64    `yaml:"start_ms,omitempty"`
}

var validProcesses = map[string]bool{"poisson": true, "gamma": true, "constant": true}

// maxTimelineMs bounds generated timestamps (about 35,000 years) so that
// timestamps plus task delays stay far from int64 overflow.
const maxTimelineMs int64 = 1 << 50

// Validate checks the generator parameters.
func (g *GenerateSpec) Validate() error {
	if g.Count <= 0 {
		return fmt.Errorf("generate.count must be positive, got %d", g.Count)
	}
	if math.IsNaN(g.RatePerSec) || math.IsInf(g.RatePerSec, 0) || g.RatePerSec <= 0 {
		return fmt.Errorf("generate.rate_per_sec must be a positive finite number, got %f", g.RatePerSec)
	}
	if !validProcesses[g.Process] {
		return fmt.Errorf("unknown generate.process %q; valid: poisson, gamma, constant", g.Process)
	}
	if g.CV != nil && (math.IsNaN(*g.CV) || *g.CV <= 0) {
		return fmt.Errorf("generate.cv must be positive, got %f", *g.CV)
	}
	if g.StartMs < 0 || g.StartMs > maxTimelineMs {
		return fmt.Errorf("generate.start_ms must be within [0, %d], got %d", maxTimelineMs, g.StartMs)
	}
	if span := float64(g.StartMs) + float64(g.Count-1)*1000/g.RatePerSec; span > float64(maxTimelineMs) {
		return fmt.Errorf("generate.rate_per_sec %g is too low for %d events: expected span %.3gms exceeds %dms",
			g.RatePerSec, g.Count, span, maxTimelineMs)
	}
	return nil
}

// Events draws Count events. Arrival gaps and positions come from separate
// RNG streams.
func (g *GenerateSpec) Events() []EventSpec {
	rng := sim.NewPartitionedRNG(g.Seed)
	sampler := newIntervalSampler(g.Process, g.RatePerSec/1000, g.CV)
	arrivals := rng.ForSubsystem(sim.SubsystemArrivals)
	positions := rng.ForSubsystem(sim.SubsystemPositions)

	out := make([]EventSpec, g.Count)
	at := g.StartMs
	for i := range out {
		if i > 0 {
			at = min(at+sampler.SampleInterval(arrivals), maxTimelineMs)
		}
		out[i] = EventSpec{
			AtMs: at,
			X:    math.Round(positions.Float64()*1000) / 10,
			Y:    math.Round(positions.Float64()*1000) / 10,
		}
	}
	return out
}

// intervalSampler generates inter-arrival times in milliseconds.
type intervalSampler interface {
	// SampleInterval returns the next gap, within [0, maxTimelineMs].
	SampleInterval(rng *rand.Rand) int64
}

// poissonSampler generates exponentially-distributed gaps (CV=1).
type poissonSampler struct {
	ratePerMs float64
}

func (s *poissonSampler) SampleInterval(rng *rand.Rand) int64 {
	return gapMs(rng.ExpFloat64() / s.ratePerMs)
}

// gammaSampler generates Gamma-distributed gaps; CV > 1 is burstier than
// Poisson.
type gammaSampler struct {
	shape float64 // 1/CV²
	scale float64 // CV²/rate, in ms
}

func (s *gammaSampler) SampleInterval(rng *rand.Rand) int64 {
	return gapMs(gammaRand(rng, s.shape, s.scale))
}

// constantSampler spaces events evenly.
type constantSampler struct {
	gap int64
}

func (s *constantSampler) SampleInterval(*rand.Rand) int64 {
	return s.gap
}

// gapMs converts a sampled gap to whole milliseconds, clamped so the
// conversion cannot overflow.
func gapMs(ms float64) int64 {
	if math.IsNaN(ms) || ms <= 0 {
		return 0
	}
	if ms >= float64(maxTimelineMs) {
		return maxTimelineMs
	}
	return int64(ms)
}

func newIntervalSampler(process string, ratePerMs float64, cv *float64) intervalSampler {
	switch process {
	case "constant":
		return &constantSampler{gap: gapMs(math.Round(1 / ratePerMs))}
	case "gamma":
		c := 1.0
		if cv != nil {
			c = *cv
		}
		shape := 1.0 / (c * c)
		if shape < 0.01 {
			logrus.Warnf("Gamma shape %.4f (CV=%.1f) is very small; falling back to Poisson", shape, c)
			return &poissonSampler{ratePerMs: ratePerMs}
		}
		return &gammaSampler{shape: shape, scale: c * c / ratePerMs}
	default:
		return &poissonSampler{ratePerMs: ratePerMs}
	}
}

// gammaRand samples Gamma(shape, scale) with Marsaglia-Tsang; shapes below 1
// use Gamma(a) = Gamma(a+1) * U^(1/a).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := rng.Float64()
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}
