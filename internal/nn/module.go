// Package nn implements neural network modules on top of scalar autodiff.
//
// This package provides building blocks for constructing neural networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable scalars with gradient tracking
//   - Linear, Conv1D, Conv2D, Conv3D: Weighted layers
//   - BatchNorm, Pool2D: Normalization and pooling
//   - Activations: ReLU, Tanh, Softmax
//   - Loss functions: MSE, CrossEntropy
//   - Sequential: Container for stacking layers
//
// Every layer is ordinary arithmetic over autodiff values, so gradients
// flow through any composition without layer specific backward code.
package nn

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output values from input values
//   - Parameters: Return all trainable parameters
//
// Inputs and outputs are flat slices. Layers with spatial structure
// (convolution, pooling) use channel-major order: index = (c*H + h)*W + w.
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 8, nn.InitConfig{}),
//	    nn.NewTanh(),
//	    nn.NewLinear(8, 1, nn.InitConfig{}),
//	)
type Module interface {
	// Forward computes the output of the module given its inputs.
	//
	// Panics if the number of inputs does not match the module.
	Forward(input []*autodiff.Value) []*autodiff.Value

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter
}

// StateDict returns the parameters of m keyed by name.
//
// Modules that nest other modules (Sequential) prefix the names of their
// children; for any other module the parameter names are used as is.
func StateDict(m Module) map[string]*Parameter {
	if sd, ok := m.(interface{ StateDict() map[string]*Parameter }); ok {
		return sd.StateDict()
	}
	stateDict := make(map[string]*Parameter)
	for _, p := range m.Parameters() {
		stateDict[p.Name()] = p
	}
	return stateDict
}

// ZeroGrad clears the gradients of every parameter of m.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// Constants wraps raw inputs as constant leaves.
func Constants(data []float64) []*autodiff.Value {
	values := make([]*autodiff.Value, len(data))
	for i, d := range data {
		values[i] = autodiff.Constant(d)
	}
	return values
}

// Data returns the forward values of values.
func Data(values []*autodiff.Value) []float64 {
	data := make([]float64, len(values))
	for i, v := range values {
		data[i] = v.Data()
	}
	return data
}
