package nn

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Parameter is a named trainable scalar of a layer.
//
// The underlying Value is a leaf that requires gradients. Layers use the
// same Value in every forward pass, so its gradient accumulates across
// backward passes until ZeroGrad is called.
//
// Example:
//
//	weight := nn.NewParameter("linear.weight[0][1]", autodiff.New(0.3))
//	w := weight.Value()
//	grad := weight.Grad() // after a backward pass
type Parameter struct {
	name  string          // Parameter name (e.g., "weight[0][1]", "bias[2]")
	value *autodiff.Value // Leaf value used in forward passes
}

// NewParameter creates a new trainable parameter.
//
// Parameters:
//   - name: Descriptive name for this parameter
//   - value: The initialized leaf value
//
// Returns a new Parameter.
func NewParameter(name string, value *autodiff.Value) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the leaf value used in forward passes.
func (p *Parameter) Value() *autodiff.Value {
	return p.value
}

// Data returns the current parameter value.
func (p *Parameter) Data() float64 {
	return p.value.Data()
}

// Grad returns the gradient accumulated by backward passes.
func (p *Parameter) Grad() float64 {
	return p.value.Grad()
}

// ZeroGrad clears the gradient.
//
// This should be called before each training iteration to avoid
// accumulating gradients from previous iterations.
func (p *Parameter) ZeroGrad() {
	p.value.ZeroGrad()
}

// Values returns the leaf values of params in order.
func Values(params []*Parameter) []*autodiff.Value {
	values := make([]*autodiff.Value, len(params))
	for i, p := range params {
		values[i] = p.value
	}
	return values
}
