package nn

import (
	"math"
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// WeightInit selects the distribution used to sample initial weights.
type WeightInit int

const (
	// GlorotUniform samples U(-√(6/(fan_in+fan_out)), √(6/(fan_in+fan_out))).
	GlorotUniform WeightInit = iota
	// GlorotNormal samples N(0, √(2/(fan_in+fan_out))).
	GlorotNormal
	// HeUniform samples U(-√(6/fan_in), √(6/fan_in)).
	HeUniform
	// HeNormal samples N(0, √(2/fan_in)).
	HeNormal
	// LecunUniform samples U(-√(3/fan_in), √(3/fan_in)).
	LecunUniform
	// LecunNormal samples N(0, √(1/fan_in)).
	LecunNormal
)

// String implements fmt.Stringer.
func (w WeightInit) String() string {
	switch w {
	case GlorotUniform:
		return "GlorotUniform"
	case GlorotNormal:
		return "GlorotNormal"
	case HeUniform:
		return "HeUniform"
	case HeNormal:
		return "HeNormal"
	case LecunUniform:
		return "LecunUniform"
	case LecunNormal:
		return "LecunNormal"
	default:
		return "WeightInit(unknown)"
	}
}

// Fanning is the number of input and output connections of a weight.
type Fanning struct {
	In  int
	Out int
}

// Fan returns a Fanning with distinct fan-in and fan-out.
func Fan(in, out int) Fanning {
	return Fanning{In: in, Out: out}
}

// FanSame returns a Fanning whose fan-in and fan-out are both n.
func FanSame(n int) Fanning {
	return Fanning{In: n, Out: n}
}

// Sample draws one weight and returns it as a parameter leaf.
//
// Parameters:
//   - fanning: Fan-in and fan-out of the layer owning the weight
//   - src: Random source, so runs can be reproduced from a seed
//
// Panics for an unknown WeightInit or a non-positive fan-in.
func (w WeightInit) Sample(fanning Fanning, src rand.Source) *autodiff.Value {
	if fanning.In <= 0 {
		exceptions.Panicf("nn.%s.Sample: fan_in must be positive, got %d", w, fanning.In)
	}
	fanIn := float64(fanning.In)
	fanSum := float64(fanning.In + fanning.Out)

	var weight float64
	switch w {
	case GlorotUniform:
		weight = uniform(math.Sqrt(6/fanSum), src)
	case GlorotNormal:
		weight = normal(math.Sqrt(2/fanSum), src)
	case HeUniform:
		weight = uniform(math.Sqrt(6/fanIn), src)
	case HeNormal:
		weight = normal(math.Sqrt(2/fanIn), src)
	case LecunUniform:
		weight = uniform(math.Sqrt(3/fanIn), src)
	case LecunNormal:
		weight = normal(math.Sqrt(1/fanIn), src)
	default:
		exceptions.Panicf("nn.WeightInit.Sample: unknown weight init %d", int(w))
	}
	return autodiff.New(weight)
}

func uniform(limit float64, src rand.Source) float64 {
	return distuv.Uniform{Min: -limit, Max: limit, Src: src}.Rand()
}

func normal(stdev float64, src rand.Source) float64 {
	return distuv.Normal{Mu: 0, Sigma: stdev, Src: src}.Rand()
}

// InitConfig holds weight initialization settings shared by layers.
type InitConfig struct {
	Weights WeightInit  // Weight distribution (default: GlorotUniform)
	Source  rand.Source // Random source (default: PCG seeded with Seed)
	Seed    uint64      // Seed for the default source
}

// source returns the configured random source, creating a seeded PCG one
// when none is set.
func (c *InitConfig) source() rand.Source {
	if c.Source == nil {
		c.Source = rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15)
	}
	return c.Source
}
