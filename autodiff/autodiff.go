// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Every arithmetic operation on a Value returns a new Value that records the
// operation and its operands. Calling Backward on a result walks that graph
// in reverse topological order and accumulates d(result)/d(v) into every
// Value v that requires gradients.
//
// Example:
//
//	import "github.com/born-ml/scalargrad/autodiff"
//
//	func main() {
//	    x := autodiff.New(2)
//	    w := autodiff.New(-3)
//	    y := x.Mul(w).Addf(1).Tanh()
//
//	    y.Backward()
//	    fmt.Println(x.Grad(), w.Grad())
//	}
//
// Gradients accumulate across backward passes. Use ZeroGrad between passes
// over the same graph.
package autodiff

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Value is a scalar node of the computation graph.
type Value = autodiff.Value

// Op records how a derived Value was produced.
type Op = autodiff.Op

// Operation variants.
type (
	AddOp     = autodiff.AddOp
	SubOp     = autodiff.SubOp
	MulOp     = autodiff.MulOp
	DivOp     = autodiff.DivOp
	PowfOp    = autodiff.PowfOp
	PowOp     = autodiff.PowOp
	ReLUOp    = autodiff.ReLUOp
	TanhOp    = autodiff.TanhOp
	SoftmaxOp = autodiff.SoftmaxOp
	ExpOp     = autodiff.ExpOp
	LogOp     = autodiff.LogOp
	NegOp     = autodiff.NegOp
)

// New creates a leaf Value that requires gradients.
func New(data float64) *Value {
	return autodiff.New(data)
}

// Constant creates a leaf Value that never receives gradients.
func Constant(data float64) *Value {
	return autodiff.Constant(data)
}

// NewValue creates a leaf Value with an explicit requiresGrad flag.
func NewValue(data float64, requiresGrad bool) *Value {
	return autodiff.NewValue(data, requiresGrad)
}

// Softmax returns the softmax of inputs, one output Value per input.
//
// Each output depends on every input.
func Softmax(inputs []*Value) []*Value {
	return autodiff.Softmax(inputs)
}

// Sum adds values. An empty slice sums to a constant zero.
func Sum(values []*Value) *Value {
	return autodiff.Sum(values)
}

// Backward seeds root with gradient 1 and propagates it to every
// contributing Value.
func Backward(root *Value) {
	autodiff.Backward(root)
}

// TopoOrder returns the Values reachable from root, inputs before outputs.
func TopoOrder(root *Value) []*Value {
	return autodiff.TopoOrder(root)
}

// ZeroGrad clears the gradient of every Value reachable from root.
func ZeroGrad(root *Value) {
	autodiff.ZeroGrad(root)
}
