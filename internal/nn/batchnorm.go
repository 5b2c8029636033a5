package nn

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
)

// BatchNorm normalizes the values passed to Forward.
//
// Output: y_i = (x_i - μ) / √(σ² + eps) * γ + β
// where μ and σ² are the mean and (biased) variance of the inputs, and γ, β
// are learnable scalars starting at 1 and 0.
//
// The statistics are part of the graph, so gradients flow through μ and σ²
// back into every input.
//
// Module.Forward takes one sample, so inside a Sequential the layer
// normalizes across that sample's features, i.e. layer normalization. To
// normalize one feature over a batch, pass that feature's values for the
// whole batch.
type BatchNorm struct {
	eps   float64
	gamma *Parameter
	beta  *Parameter
}

// NewBatchNorm creates a new BatchNorm layer. eps defaults to 1e-5 when 0.
func NewBatchNorm(eps float64) *BatchNorm {
	if eps == 0 {
		eps = 1e-5
	}
	return &BatchNorm{
		eps:   eps,
		gamma: NewParameter("gamma", autodiff.New(1)),
		beta:  NewParameter("beta", autodiff.New(0)),
	}
}

// Forward normalizes input. An empty input yields an empty output.
func (b *BatchNorm) Forward(input []*autodiff.Value) []*autodiff.Value {
	if len(input) == 0 {
		return nil
	}
	n := float64(len(input))
	mean := autodiff.Sum(input).Divf(n)

	centered := make([]*autodiff.Value, len(input))
	squares := make([]*autodiff.Value, len(input))
	for i, x := range input {
		centered[i] = x.Sub(mean)
		squares[i] = centered[i].Powf(2)
	}
	variance := autodiff.Sum(squares).Divf(n)
	std := variance.Addf(b.eps).Powf(0.5)

	output := make([]*autodiff.Value, len(input))
	for i, c := range centered {
		output[i] = c.Div(std).Mul(b.gamma.Value()).Add(b.beta.Value())
	}
	return output
}

// Parameters returns [gamma, beta].
func (b *BatchNorm) Parameters() []*Parameter {
	return []*Parameter{b.gamma, b.beta}
}
