// Package train drives gradient descent over a model built from nn modules.
//
// Each step builds a fresh graph from constant inputs, clears parameter
// gradients, runs a backward pass from the loss and applies the optimizer.
package train

import (
	"math"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/nn"
	"github.com/born-ml/scalargrad/internal/optim"
)

// Loss selects the objective minimized by Run.
type Loss int

const (
	// MSELoss compares the model outputs with Sample.Target.
	MSELoss Loss = iota
	// CrossEntropyLoss expects probabilities from the model (e.g. a final
	// Softmax) and a one-hot Sample.Target.
	CrossEntropyLoss
)

// Config holds training settings.
type Config struct {
	Epochs   int     // Passes over the samples (default: 100)
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // SGD momentum (default: 0)
	Adam     bool    // Use Adam instead of SGD
	Loss     Loss    // Objective (default: MSELoss)
	LogEvery int     // Log progress every LogEvery epochs at verbosity 1 (default: 10)

	// OnEpoch, if set, is called after every epoch with the 0-based epoch
	// index and its mean loss.
	OnEpoch func(epoch int, loss float64)
}

// withDefaults returns a copy of c with zero fields filled in.
func (c Config) withDefaults() Config {
	if c.Epochs == 0 {
		c.Epochs = 100
	}
	if c.LR == 0 {
		c.LR = 0.01
	}
	if c.LogEvery == 0 {
		c.LogEvery = 10
	}
	return c
}

// Validate reports settings that cannot be trained with.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Epochs < 0 {
		return errors.Errorf("train: epochs must not be negative, got %d", c.Epochs)
	}
	if c.LR < 0 || math.IsNaN(c.LR) || math.IsInf(c.LR, 0) {
		return errors.Errorf("train: learning rate must be a finite non-negative number, got %g", c.LR)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return errors.Errorf("train: momentum must be in [0, 1), got %g", c.Momentum)
	}
	if c.LogEvery < 0 {
		return errors.Errorf("train: log interval must not be negative, got %d", c.LogEvery)
	}
	if c.Loss != MSELoss && c.Loss != CrossEntropyLoss {
		return errors.Errorf("train: unknown loss %d", int(c.Loss))
	}
	return nil
}

// Sample is one training example.
type Sample struct {
	Input  []float64
	Target []float64
}

// Result summarizes a training run.
type Result struct {
	Losses    []float64 // Mean loss of every epoch
	FinalLoss float64   // Mean loss of the last epoch
}

// Run trains model on samples and returns the per-epoch mean losses.
//
// Shape mismatches between model and samples surface as errors instead of
// panics.
func Run(model nn.Module, samples []Sample, cfg Config) (result Result, err error) {
	if err = cfg.Validate(); err != nil {
		return result, err
	}
	if len(samples) == 0 {
		return result, errors.New("train: no samples")
	}
	cfg = cfg.withDefaults()

	optimizer := newOptimizer(model.Parameters(), cfg)
	klog.V(1).Infof("train: %d parameters, %d samples, %d epochs, lr=%g",
		len(model.Parameters()), len(samples), cfg.Epochs, cfg.LR)

	err = exceptions.TryCatch[error](func() {
		for epoch := range cfg.Epochs {
			total := 0.0
			for _, s := range samples {
				total += Step(model, optimizer, s, cfg.Loss)
			}
			mean := total / float64(len(samples))
			result.Losses = append(result.Losses, mean)
			if cfg.OnEpoch != nil {
				cfg.OnEpoch(epoch, mean)
			}
			if cfg.LogEvery > 0 && (epoch+1)%cfg.LogEvery == 0 {
				klog.V(1).Infof("train: epoch %d/%d loss=%.6f", epoch+1, cfg.Epochs, mean)
			}
		}
	})
	if err != nil {
		return result, errors.Wrap(err, "train: training step failed")
	}
	if n := len(result.Losses); n > 0 {
		result.FinalLoss = result.Losses[n-1]
	}
	return result, nil
}

// Step runs one update on a single sample and returns its loss before the
// update.
func Step(model nn.Module, optimizer optim.Optimizer, s Sample, loss Loss) float64 {
	output := model.Forward(nn.Constants(s.Input))
	l := lossValue(output, s.Target, loss)

	optimizer.ZeroGrad()
	autodiff.Backward(l)
	optimizer.Step()
	return l.Data()
}

// Predict runs model forward on input and returns the output data.
func Predict(model nn.Module, input []float64) []float64 {
	return nn.Data(model.Forward(nn.Constants(input)))
}

func lossValue(output []*autodiff.Value, target []float64, loss Loss) *autodiff.Value {
	if loss == CrossEntropyLoss {
		return nn.CrossEntropy(output, argmax(target))
	}
	return nn.MSE(output, nn.Constants(target))
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func newOptimizer(params []*nn.Parameter, cfg Config) optim.Optimizer {
	if cfg.Adam {
		return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR})
	}
	return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
}
