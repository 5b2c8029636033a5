package nn

import (
	"fmt"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input, creating a
// sequential pipeline of transformations.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(4, 16, cfg),
//	    nn.NewReLU(),
//	    nn.NewLinear(16, 3, cfg),
//	    nn.NewSoftmax(),
//	)
//
//	output := model.Forward(input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input []*autodiff.Value) []*autodiff.Value {
	output := input

	for _, module := range s.modules {
		output = module.Forward(output)
	}

	return output
}

// Parameters returns all trainable parameters from all modules, in module
// order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		exceptions.Panicf("Sequential.Module: index %d out of bounds for %d modules", index, len(s.modules))
	}
	return s.modules[index]
}

// StateDict returns the parameters of all modules by name.
//
// Names are prefixed with their module index (e.g., "0.weight[0][1]",
// "2.bias[0]") to avoid collisions between layers.
func (s *Sequential) StateDict() map[string]*Parameter {
	stateDict := make(map[string]*Parameter)

	for i, module := range s.modules {
		for name, p := range StateDict(module) {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = p
		}
	}

	return stateDict
}
