// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/scalargrad/autodiff"
	"github.com/born-ml/scalargrad/internal/nn"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable scalar in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and leaf value.
func NewParameter(name string, value *autodiff.Value) *Parameter {
	return nn.NewParameter(name, value)
}

// Initialization

// WeightInit selects the distribution used to sample initial weights.
type WeightInit = nn.WeightInit

// Weight initializations.
const (
	GlorotUniform = nn.GlorotUniform
	GlorotNormal  = nn.GlorotNormal
	HeUniform     = nn.HeUniform
	HeNormal      = nn.HeNormal
	LecunUniform  = nn.LecunUniform
	LecunNormal   = nn.LecunNormal
)

// InitConfig holds weight initialization settings shared by layers.
type InitConfig = nn.InitConfig

// Fanning is the number of input and output connections of a weight.
type Fanning = nn.Fanning

// Fan returns a Fanning with distinct fan-in and fan-out.
func Fan(in, out int) Fanning {
	return nn.Fan(in, out)
}

// FanSame returns a Fanning whose fan-in and fan-out are both n.
func FanSame(n int) Fanning {
	return nn.FanSame(n)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer.
//
// Example:
//
//	layer := nn.NewLinear(2, 4, nn.InitConfig{Weights: nn.HeUniform, Seed: 7})
func NewLinear(inFeatures, outFeatures int, cfg InitConfig) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, cfg)
}

// Conv2D represents a 2D convolutional layer over flattened inputs.
type Conv2D = nn.Conv2D

// Conv2DConfig configures a Conv2D layer.
type Conv2DConfig = nn.Conv2DConfig

// NewConv2D creates a new 2D convolutional layer.
func NewConv2D(conv Conv2DConfig, cfg InitConfig) *Conv2D {
	return nn.NewConv2D(conv, cfg)
}

// Conv1D represents a 1D convolutional layer.
type Conv1D = nn.Conv1D

// Conv1DConfig configures a Conv1D layer.
type Conv1DConfig = nn.Conv1DConfig

// NewConv1D creates a new 1D convolutional layer.
func NewConv1D(conv Conv1DConfig, cfg InitConfig) *Conv1D {
	return nn.NewConv1D(conv, cfg)
}

// Conv3D represents a 3D convolutional layer over flattened inputs.
type Conv3D = nn.Conv3D

// Conv3DConfig configures a Conv3D layer.
type Conv3DConfig = nn.Conv3DConfig

// NewConv3D creates a new 3D convolutional layer.
func NewConv3D(conv Conv3DConfig, cfg InitConfig) *Conv3D {
	return nn.NewConv3D(conv, cfg)
}

// Pool2D represents a 2D pooling layer.
type Pool2D = nn.Pool2D

// Pool2DConfig configures a Pool2D layer.
type Pool2DConfig = nn.Pool2DConfig

// PoolingFn reduces a pooling window to one value.
type PoolingFn = nn.PoolingFn

// Pooling functions.
const (
	MaxPooling = nn.MaxPooling
	AvgPooling = nn.AvgPooling
)

// NewPool2D creates a new 2D pooling layer.
func NewPool2D(cfg Pool2DConfig) *Pool2D {
	return nn.NewPool2D(cfg)
}

// BatchNorm normalizes its input and applies a learned scale and shift.
//
// Statistics are taken over the slice passed to Forward. Inside a
// Sequential that slice is one sample, so the layer normalizes across
// features (layer normalization). To normalize one feature over a batch,
// call Forward with that feature's values for the whole batch.
type BatchNorm = nn.BatchNorm

// NewBatchNorm creates a new normalization layer. eps defaults to 1e-5.
func NewBatchNorm(eps float64) *BatchNorm {
	return nn.NewBatchNorm(eps)
}

// Activations

// ReLU applies max(0, x) element-wise.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Tanh applies tanh(x) element-wise.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// Softmax turns its input into probabilities.
type Softmax = nn.Softmax

// NewSoftmax creates a new Softmax activation.
func NewSoftmax() *Softmax {
	return nn.NewSoftmax()
}

// Containers

// Sequential chains modules, feeding each output into the next module.
type Sequential = nn.Sequential

// NewSequential creates a new sequential container.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 4, cfg),
//	    nn.NewTanh(),
//	    nn.NewLinear(4, 1, cfg),
//	)
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Loss functions

// MSE returns the mean squared error between predictions and targets.
func MSE(predictions, targets []*autodiff.Value) *autodiff.Value {
	return nn.MSE(predictions, targets)
}

// CrossEntropy returns -log(probs[class]).
func CrossEntropy(probs []*autodiff.Value, class int) *autodiff.Value {
	return nn.CrossEntropy(probs, class)
}

// Utilities

// StateDict returns the parameters of m keyed by name.
func StateDict(m Module) map[string]*Parameter {
	return nn.StateDict(m)
}

// ZeroGrad clears the gradient of every parameter of m.
func ZeroGrad(m Module) {
	nn.ZeroGrad(m)
}

// Constants wraps data as constant values.
func Constants(data []float64) []*autodiff.Value {
	return nn.Constants(data)
}

// Data returns the data of values.
func Data(values []*autodiff.Value) []float64 {
	return nn.Data(values)
}
