package nn_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/nn"
)

func TestWeightInit_UniformBounds(t *testing.T) {
	fanning := nn.Fan(10, 30)
	tests := []struct {
		init  nn.WeightInit
		limit float64
	}{
		{nn.GlorotUniform, math.Sqrt(6.0 / 40)},
		{nn.HeUniform, math.Sqrt(6.0 / 10)},
		{nn.LecunUniform, math.Sqrt(3.0 / 10)},
	}
	for _, tt := range tests {
		t.Run(tt.init.String(), func(t *testing.T) {
			src := rand.NewPCG(1, 2)
			for range 1000 {
				w := tt.init.Sample(fanning, src)
				require.True(t, w.RequiresGrad())
				assert.LessOrEqual(t, math.Abs(w.Data()), tt.limit)
			}
		})
	}
}

func TestWeightInit_NormalStdev(t *testing.T) {
	fanning := nn.Fan(8, 24)
	tests := []struct {
		init  nn.WeightInit
		stdev float64
	}{
		{nn.GlorotNormal, math.Sqrt(2.0 / 32)},
		{nn.HeNormal, math.Sqrt(2.0 / 8)},
		{nn.LecunNormal, math.Sqrt(1.0 / 8)},
	}
	for _, tt := range tests {
		t.Run(tt.init.String(), func(t *testing.T) {
			src := rand.NewPCG(7, 11)
			const n = 5000
			var sum, sumSq float64
			for range n {
				w := tt.init.Sample(fanning, src).Data()
				sum += w
				sumSq += w * w
			}
			mean := sum / n
			stdev := math.Sqrt(sumSq/n - mean*mean)
			assert.InDelta(t, 0, mean, 0.1*tt.stdev)
			assert.InEpsilon(t, tt.stdev, stdev, 0.1)
		})
	}
}

func TestWeightInit_Reproducible(t *testing.T) {
	a := nn.HeNormal.Sample(nn.FanSame(4), rand.NewPCG(3, 3))
	b := nn.HeNormal.Sample(nn.FanSame(4), rand.NewPCG(3, 3))
	assert.Equal(t, a.Data(), b.Data())
}

func TestWeightInit_Invalid(t *testing.T) {
	src := rand.NewPCG(1, 1)
	assert.Panics(t, func() { nn.GlorotUniform.Sample(nn.Fan(0, 3), src) })
	assert.Panics(t, func() { nn.WeightInit(99).Sample(nn.FanSame(3), src) })
	assert.Equal(t, "WeightInit(unknown)", nn.WeightInit(99).String())
}

func TestFanSame(t *testing.T) {
	assert.Equal(t, nn.Fanning{In: 5, Out: 5}, nn.FanSame(5))
	assert.Equal(t, nn.Fanning{In: 2, Out: 3}, nn.Fan(2, 3))
}
