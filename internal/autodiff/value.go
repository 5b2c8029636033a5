// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// Every Value is a node of a computation graph. Applying an operation to one
// or more values allocates a new Value holding the forward result together
// with the Op that produced it, so ordinary expression evaluation builds the
// graph as a side effect:
//
//	x := autodiff.New(2.0)
//	y := x.Mul(x).Add(x) // y = x² + x
//	y.Backward()
//	fmt.Println(x.Grad()) // dy/dx = 2x + 1 = 5.0
//
// A *Value is a shared handle: copying the pointer never copies the cell, so
// using the same value twice in a formula makes both uses accumulate into the
// same gradient.
//
// Gradients accumulate. Running Backward twice without ZeroGrad in between
// sums the gradients of both passes, which is how gradients over several
// losses are combined. Training loops must reset gradients explicitly before
// every step.
//
// A graph is owned by a single goroutine. Values carry no locks.
package autodiff

import (
	"fmt"
	"math"

	"github.com/gomlx/exceptions"
)

// Value is a scalar cell of the computation graph.
//
// Data is fixed at creation for derived values. Grad starts at 0 and only
// grows by accumulation during backward passes.
type Value struct {
	data         float64
	grad         float64
	requiresGrad bool
	op           Op // nil for leaves
}

// New creates a parameter leaf that requires gradients.
func New(data float64) *Value {
	return &Value{data: data, requiresGrad: true}
}

// Constant creates a leaf that does not take part in gradient computation.
func Constant(data float64) *Value {
	return &Value{data: data}
}

// NewValue creates a leaf with an explicit gradient flag.
func NewValue(data float64, requiresGrad bool) *Value {
	return &Value{data: data, requiresGrad: requiresGrad}
}

// newDerived creates the output cell of op. It requires gradients if any
// operand does.
func newDerived(data float64, op Op) *Value {
	requiresGrad := false
	for _, in := range op.Inputs() {
		if in.requiresGrad {
			requiresGrad = true
			break
		}
	}
	return &Value{data: data, requiresGrad: requiresGrad, op: op}
}

// Data returns the forward value.
func (v *Value) Data() float64 {
	return v.data
}

// Grad returns the accumulated gradient. It is 0 until a backward pass
// reaches this value.
func (v *Value) Grad() float64 {
	return v.grad
}

// AddGrad accumulates g into the gradient.
func (v *Value) AddGrad(g float64) {
	v.grad += g
}

// ZeroGrad resets the gradient of this value only. Use the package level
// ZeroGrad to reset a whole graph.
func (v *Value) ZeroGrad() {
	v.grad = 0
}

// RequiresGrad reports whether backward passes accumulate into this value.
func (v *Value) RequiresGrad() bool {
	return v.requiresGrad
}

// Op returns the operation that produced v, or nil for leaves.
func (v *Value) Op() Op {
	return v.op
}

// IsLeaf reports whether v was created by a constructor rather than an
// operation.
func (v *Value) IsLeaf() bool {
	return v.op == nil
}

// SetData replaces the forward value of a leaf. Optimizers use it to update
// parameters between steps. Derived values are immutable and SetData panics
// on them.
func (v *Value) SetData(data float64) {
	if v.op != nil {
		exceptions.Panicf("autodiff.Value.SetData: cannot overwrite derived value produced by %s", v.op.Name())
	}
	v.data = data
}

// String implements fmt.Stringer.
func (v *Value) String() string {
	return fmt.Sprintf("Value(data=%g, grad=%g)", v.data, v.grad)
}

// Add returns v + other.
func (v *Value) Add(other *Value) *Value {
	return newDerived(v.data+other.data, &AddOp{lhs: v, rhs: other})
}

// Sub returns v - other.
func (v *Value) Sub(other *Value) *Value {
	return newDerived(v.data-other.data, &SubOp{lhs: v, rhs: other})
}

// Mul returns v * other.
func (v *Value) Mul(other *Value) *Value {
	return newDerived(v.data*other.data, &MulOp{lhs: v, rhs: other})
}

// Div returns v / other.
//
// Dividing by a value whose data is 0 yields ±Inf or NaN; it never panics.
func (v *Value) Div(other *Value) *Value {
	return newDerived(v.data/other.data, &DivOp{numer: v, denom: other})
}

// Addf returns v + c for a constant c.
func (v *Value) Addf(c float64) *Value { return v.Add(Constant(c)) }

// Subf returns v - c for a constant c.
func (v *Value) Subf(c float64) *Value { return v.Sub(Constant(c)) }

// Mulf returns v * c for a constant c.
func (v *Value) Mulf(c float64) *Value { return v.Mul(Constant(c)) }

// Divf returns v / c for a constant c.
func (v *Value) Divf(c float64) *Value { return v.Div(Constant(c)) }

// Powf returns v raised to a constant exponent.
func (v *Value) Powf(exponent float64) *Value {
	return newDerived(math.Pow(v.data, exponent), &PowfOp{base: v, exponent: exponent})
}

// Pow returns v raised to a differentiable exponent. Both the base and the
// exponent receive gradients.
func (v *Value) Pow(exponent *Value) *Value {
	return newDerived(math.Pow(v.data, exponent.data), &PowOp{base: v, exponent: exponent})
}

// Neg returns -v.
func (v *Value) Neg() *Value {
	return newDerived(-v.data, &NegOp{input: v})
}

// Exp returns e^v.
func (v *Value) Exp() *Value {
	return newDerived(math.Exp(v.data), &ExpOp{input: v})
}

// Log returns the natural logarithm of v. Non-positive inputs yield NaN or
// -Inf.
func (v *Value) Log() *Value {
	return newDerived(math.Log(v.data), &LogOp{input: v})
}

// ReLU returns max(0, v).
func (v *Value) ReLU() *Value {
	return newDerived(math.Max(0, v.data), &ReLUOp{input: v})
}

// Tanh returns the hyperbolic tangent of v.
func (v *Value) Tanh() *Value {
	return newDerived(math.Tanh(v.data), &TanhOp{input: v})
}

// Sum returns the sum of values, or a constant 0 for an empty slice.
func Sum(values []*Value) *Value {
	if len(values) == 0 {
		return Constant(0)
	}
	total := values[0]
	for _, v := range values[1:] {
		total = total.Add(v)
	}
	return total
}
