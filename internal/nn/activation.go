package nn

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation to every input.
func (r *ReLU) Forward(input []*autodiff.Value) []*autodiff.Value {
	output := make([]*autodiff.Value, len(input))
	for i, x := range input {
		output[i] = x.ReLU()
	}
	return output
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
type Tanh struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh to every input.
func (t *Tanh) Forward(input []*autodiff.Value) []*autodiff.Value {
	output := make([]*autodiff.Value, len(input))
	for i, x := range input {
		output[i] = x.Tanh()
	}
	return output
}

// Parameters returns nil (Tanh has no trainable parameters).
func (t *Tanh) Parameters() []*Parameter {
	return nil
}

// Softmax normalizes its inputs into a probability distribution.
//
// Unlike ReLU and Tanh, every output depends on every input.
type Softmax struct{}

// NewSoftmax creates a new Softmax module.
func NewSoftmax() *Softmax {
	return &Softmax{}
}

// Forward applies softmax over the whole input slice.
func (s *Softmax) Forward(input []*autodiff.Value) []*autodiff.Value {
	return autodiff.Softmax(input)
}

// Parameters returns nil (Softmax has no trainable parameters).
func (s *Softmax) Parameters() []*Parameter {
	return nil
}
