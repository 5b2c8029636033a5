// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers read the gradients accumulated on each parameter and update
// the parameter data in place.
//
// # Training Loop Pattern
//
//	import (
//	    "github.com/born-ml/scalargrad/nn"
//	    "github.com/born-ml/scalargrad/optim"
//	)
//
//	func main() {
//	    model := nn.NewLinear(2, 1, nn.InitConfig{Seed: 1})
//	    optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
//
//	    for epoch := range 100 {
//	        for _, s := range samples {
//	            // 1. Zero gradients
//	            optimizer.ZeroGrad()
//
//	            // 2. Forward pass
//	            output := model.Forward(nn.Constants(s.Input))
//	            loss := nn.MSE(output, nn.Constants(s.Target))
//
//	            // 3. Backward pass
//	            loss.Backward()
//
//	            // 4. Update parameters
//	            optimizer.Step()
//	        }
//	    }
//	}
package optim
