package autodiff

import "math"

// SoftmaxOp produces one component s_i of softmax(x_1..x_n).
//
// Every output depends on every input, so the op keeps the whole input slice
// and the i-th Jacobian row:
//
//	J_i[j] = ∂s_i/∂x_j = s_i * (δ_ij - s_j)
type SoftmaxOp struct {
	inputs   []*Value
	jacobian []float64
	index    int
}

// Name returns "Softmax".
func (op *SoftmaxOp) Name() string { return "Softmax" }

// Inputs returns all softmax inputs x_1..x_n.
func (op *SoftmaxOp) Inputs() []*Value { return op.inputs }

// Index returns the position i of the output this op produced.
func (op *SoftmaxOp) Index() int { return op.index }

// Jacobian returns the row ∂s_i/∂x_j for all j. The slice must not be
// modified.
func (op *SoftmaxOp) Jacobian() []float64 { return op.jacobian }

func (op *SoftmaxOp) backward(_, grad float64) {
	for j, in := range op.inputs {
		accumulate(in, grad*op.jacobian[j])
	}
}

// Softmax returns the normalized exponentials of inputs, one Value per input
// position.
//
// The exponentials are computed once, shifted by the largest input so large
// logits do not overflow. Returns nil for an empty slice.
func Softmax(inputs []*Value) []*Value {
	n := len(inputs)
	if n == 0 {
		return nil
	}

	maxData := math.Inf(-1)
	for _, in := range inputs {
		maxData = math.Max(maxData, in.data)
	}

	probs := make([]float64, n)
	total := 0.0
	for i, in := range inputs {
		probs[i] = math.Exp(in.data - maxData)
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}

	// Operand slice is shared by all outputs; callers cannot mutate it.
	operands := make([]*Value, n)
	copy(operands, inputs)

	outputs := make([]*Value, n)
	for i := range inputs {
		row := make([]float64, n)
		for j := range row {
			delta := 0.0
			if i == j {
				delta = 1
			}
			row[j] = probs[i] * (delta - probs[j])
		}
		outputs[i] = newDerived(probs[i], &SoftmaxOp{inputs: operands, jacobian: row, index: i})
	}
	return outputs
}
