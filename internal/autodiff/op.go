package autodiff

import "math"

// Op is the operation that produced a derived Value.
//
// The set of operations is closed: every variant is defined in this package
// and callers inspect an Op with a type switch. Each variant records its
// operand handles and knows how to push the gradient of its output back into
// them.
type Op interface {
	// Name returns a short identifier such as "Add" or "Softmax".
	Name() string

	// Inputs returns the operand values in a fixed order.
	Inputs() []*Value

	// backward accumulates the local contribution into each operand that
	// requires grad. data and grad are the output's forward value and
	// accumulated gradient.
	backward(data, grad float64)
}

// accumulate adds g into v if v takes part in gradient computation.
func accumulate(v *Value, g float64) {
	if v.requiresGrad {
		v.grad += g
	}
}

// AddOp is lhs + rhs.
//
//   - d/dlhs = 1
//   - d/drhs = 1
type AddOp struct {
	lhs, rhs *Value
}

// Name returns "Add".
func (op *AddOp) Name() string { return "Add" }

// Inputs returns [lhs, rhs].
func (op *AddOp) Inputs() []*Value { return []*Value{op.lhs, op.rhs} }

func (op *AddOp) backward(_, grad float64) {
	accumulate(op.lhs, grad)
	accumulate(op.rhs, grad)
}

// SubOp is lhs - rhs.
//
//   - d/dlhs = 1
//   - d/drhs = -1
type SubOp struct {
	lhs, rhs *Value
}

// Name returns "Sub".
func (op *SubOp) Name() string { return "Sub" }

// Inputs returns [lhs, rhs].
func (op *SubOp) Inputs() []*Value { return []*Value{op.lhs, op.rhs} }

func (op *SubOp) backward(_, grad float64) {
	accumulate(op.lhs, grad)
	accumulate(op.rhs, -grad)
}

// MulOp is lhs * rhs.
//
//   - d/dlhs = rhs
//   - d/drhs = lhs
type MulOp struct {
	lhs, rhs *Value
}

// Name returns "Mul".
func (op *MulOp) Name() string { return "Mul" }

// Inputs returns [lhs, rhs].
func (op *MulOp) Inputs() []*Value { return []*Value{op.lhs, op.rhs} }

func (op *MulOp) backward(_, grad float64) {
	accumulate(op.lhs, grad*op.rhs.data)
	accumulate(op.rhs, grad*op.lhs.data)
}

// DivOp is numer / denom.
//
//   - d/dnumer = 1/denom
//   - d/ddenom = -numer/denom²
type DivOp struct {
	numer, denom *Value
}

// Name returns "Div".
func (op *DivOp) Name() string { return "Div" }

// Inputs returns [numer, denom].
func (op *DivOp) Inputs() []*Value { return []*Value{op.numer, op.denom} }

func (op *DivOp) backward(_, grad float64) {
	accumulate(op.numer, grad/op.denom.data)
	accumulate(op.denom, grad*(-op.numer.data/math.Pow(op.denom.data, 2)))
}

// PowfOp is base^c for a constant exponent c.
//
//   - d/dbase = c * base^(c-1)
type PowfOp struct {
	base     *Value
	exponent float64
}

// Name returns "Powf".
func (op *PowfOp) Name() string { return "Powf" }

// Inputs returns [base].
func (op *PowfOp) Inputs() []*Value { return []*Value{op.base} }

// Exponent returns the constant exponent.
func (op *PowfOp) Exponent() float64 { return op.exponent }

func (op *PowfOp) backward(_, grad float64) {
	c := op.exponent
	accumulate(op.base, grad*c*math.Pow(op.base.data, c-1))
}

// PowOp is base^exponent where the exponent is itself a Value.
//
//   - d/dbase     = e * base^(e-1)
//   - d/dexponent = ln(base) * base^e
type PowOp struct {
	base, exponent *Value
}

// Name returns "Pow".
func (op *PowOp) Name() string { return "Pow" }

// Inputs returns [base, exponent].
func (op *PowOp) Inputs() []*Value { return []*Value{op.base, op.exponent} }

func (op *PowOp) backward(_, grad float64) {
	x, e := op.base.data, op.exponent.data
	accumulate(op.base, grad*e*math.Pow(x, e-1))
	accumulate(op.exponent, grad*math.Log(x)*math.Pow(x, e))
}
