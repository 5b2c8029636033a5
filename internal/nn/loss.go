package nn

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// MSE computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Panics if predictions and targets differ in length or are empty.
func MSE(predictions, targets []*autodiff.Value) *autodiff.Value {
	if len(predictions) != len(targets) || len(predictions) == 0 {
		exceptions.Panicf("MSE: predictions (%d) and targets (%d) must have the same non-zero length",
			len(predictions), len(targets))
	}

	squares := make([]*autodiff.Value, len(predictions))
	for i, p := range predictions {
		squares[i] = p.Sub(targets[i]).Powf(2)
	}
	return autodiff.Sum(squares).Divf(float64(len(squares)))
}

// CrossEntropy computes the negative log-likelihood of class under probs.
//
// probs is expected to be a probability distribution, typically the output
// of Softmax. Loss = -log(probs[class])
//
// Panics if class is out of range.
func CrossEntropy(probs []*autodiff.Value, class int) *autodiff.Value {
	if class < 0 || class >= len(probs) {
		exceptions.Panicf("CrossEntropy: class %d out of range for %d probabilities", class, len(probs))
	}
	return probs[class].Log().Neg()
}
