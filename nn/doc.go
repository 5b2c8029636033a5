// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers built from scalar values.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv1D, Conv2D, Conv3D, Pool2D, BatchNorm
//   - Activations: ReLU, Tanh, Softmax
//   - Loss functions: MSE, CrossEntropy
//   - Utilities: Sequential, Module interface, Parameter, StateDict
//   - Initialization: Glorot, He and Lecun, uniform or normal
//
// Layers take and return flat slices of *autodiff.Value. Multi-dimensional
// inputs are flattened in channel, row, column order.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/scalargrad/autodiff"
//	    "github.com/born-ml/scalargrad/nn"
//	)
//
//	func main() {
//	    cfg := nn.InitConfig{Weights: nn.GlorotUniform, Seed: 1}
//
//	    // Build a small MLP
//	    model := nn.NewSequential(
//	        nn.NewLinear(2, 4, cfg),
//	        nn.NewTanh(),
//	        nn.NewLinear(4, 1, cfg),
//	    )
//
//	    // Forward pass
//	    output := model.Forward(nn.Constants([]float64{0.5, -1}))
//
//	    // Loss and backward pass
//	    loss := nn.MSE(output, nn.Constants([]float64{1}))
//	    loss.Backward()
//
//	    for _, p := range model.Parameters() {
//	        fmt.Println(p.Name(), p.Grad())
//	    }
//	}
//
// # Gradients
//
// A Parameter keeps the same leaf across forward passes, so its gradient
// accumulates until ZeroGrad is called on the module or an optimizer.
package nn
