package autodiff

import "math"

// ReLUOp is max(0, x).
//
// The derivative is 1 where the output is positive and 0 elsewhere,
// including the kink at x = 0.
type ReLUOp struct {
	input *Value
}

// Name returns "ReLU".
func (op *ReLUOp) Name() string { return "ReLU" }

// Inputs returns [x].
func (op *ReLUOp) Inputs() []*Value { return []*Value{op.input} }

func (op *ReLUOp) backward(data, grad float64) {
	// ceil(data) clamped to 1 is the 0/1 mask for a non-negative output.
	mask := math.Min(math.Ceil(data), 1)
	accumulate(op.input, grad*mask)
}

// TanhOp is tanh(x). The derivative 1 - tanh²(x) is taken from the output.
type TanhOp struct {
	input *Value
}

// Name returns "Tanh".
func (op *TanhOp) Name() string { return "Tanh" }

// Inputs returns [x].
func (op *TanhOp) Inputs() []*Value { return []*Value{op.input} }

func (op *TanhOp) backward(data, grad float64) {
	accumulate(op.input, grad*(1-data*data))
}

// ExpOp is e^x. Its derivative is the output itself.
type ExpOp struct {
	input *Value
}

// Name returns "Exp".
func (op *ExpOp) Name() string { return "Exp" }

// Inputs returns [x].
func (op *ExpOp) Inputs() []*Value { return []*Value{op.input} }

func (op *ExpOp) backward(data, grad float64) {
	accumulate(op.input, grad*data)
}

// LogOp is ln(x).
type LogOp struct {
	input *Value
}

// Name returns "Log".
func (op *LogOp) Name() string { return "Log" }

// Inputs returns [x].
func (op *LogOp) Inputs() []*Value { return []*Value{op.input} }

func (op *LogOp) backward(_, grad float64) {
	accumulate(op.input, grad/op.input.data)
}

// NegOp is -x.
type NegOp struct {
	input *Value
}

// Name returns "Neg".
func (op *NegOp) Name() string { return "Neg" }

// Inputs returns [x].
func (op *NegOp) Inputs() []*Value { return []*Value{op.input} }

func (op *NegOp) backward(_, grad float64) {
	accumulate(op.input, -grad)
}
