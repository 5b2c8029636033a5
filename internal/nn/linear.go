package nn

import (
	"fmt"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y_o = Σ_i W[o][i] * x_i + b_o
// where:
//   - x has in_features values
//   - W has out_features rows of in_features weights
//   - b has out_features biases
//   - y has out_features values
//
// Weights are sampled with the configured WeightInit.
// Biases are initialized to zeros.
//
// Example:
//
//	layer := nn.NewLinear(3, 2, nn.InitConfig{Seed: 1})
//	output := layer.Forward(nn.Constants([]float64{1, 2, 3})) // 2 values
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      [][]*Parameter // [out_features][in_features]
	bias        []*Parameter   // [out_features]
}

// NewLinear creates a new Linear layer.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output features
//   - cfg: Weight initialization settings
//
// Returns a new Linear layer.
func NewLinear(inFeatures, outFeatures int, cfg InitConfig) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		exceptions.Panicf("NewLinear: features must be positive, got in=%d out=%d", inFeatures, outFeatures)
	}
	src := cfg.source()
	fanning := Fan(inFeatures, outFeatures)

	weight := make([][]*Parameter, outFeatures)
	bias := make([]*Parameter, outFeatures)
	for o := range weight {
		weight[o] = make([]*Parameter, inFeatures)
		for i := range weight[o] {
			weight[o][i] = NewParameter(fmt.Sprintf("weight[%d][%d]", o, i), cfg.Weights.Sample(fanning, src))
		}
		bias[o] = NewParameter(fmt.Sprintf("bias[%d]", o), autodiff.New(0))
	}

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes the output of the linear layer.
//
// Panics if len(input) != in_features.
func (l *Linear) Forward(input []*autodiff.Value) []*autodiff.Value {
	checkInputLen("Linear", input, l.inFeatures)

	output := make([]*autodiff.Value, l.outFeatures)
	for o, row := range l.weight {
		acc := l.bias[o].Value()
		for i, w := range row {
			acc = acc.Add(w.Value().Mul(input[i]))
		}
		output[o] = acc
	}
	return output
}

// Parameters returns the weights followed by the biases.
func (l *Linear) Parameters() []*Parameter {
	params := make([]*Parameter, 0, l.outFeatures*(l.inFeatures+1))
	for _, row := range l.weight {
		params = append(params, row...)
	}
	return append(params, l.bias...)
}

// Weight returns the parameter at row o, column i.
func (l *Linear) Weight(o, i int) *Parameter {
	return l.weight[o][i]
}

// Bias returns the bias parameter of output o.
func (l *Linear) Bias(o int) *Parameter {
	return l.bias[o]
}

// InFeatures returns the input size.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output size.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

func checkInputLen(layer string, input []*autodiff.Value, want int) {
	if len(input) != want {
		exceptions.Panicf("%s.Forward: expected %d inputs, got %d", layer, want, len(input))
	}
}
