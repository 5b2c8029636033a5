// Package main provides the scalargrad CLI.
//
// It trains a small multilayer perceptron on XOR with the scalar autodiff
// engine and prints the learned predictions.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/nn"
	"github.com/born-ml/scalargrad/internal/serialization"
	"github.com/born-ml/scalargrad/internal/train"
)

const version = "v0.1.0"

var (
	flagEpochs   = flag.Int("epochs", 500, "Number of training epochs")
	flagLR       = flag.Float64("lr", 0.1, "Learning rate")
	flagMomentum = flag.Float64("momentum", 0.9, "SGD momentum")
	flagAdam     = flag.Bool("adam", false, "Use Adam instead of SGD")
	flagHidden   = flag.Int("hidden", 4, "Hidden layer width")
	flagInit     = flag.String("init", "glorot_uniform", "Weight init: glorot_uniform, glorot_normal, he_uniform, he_normal, lecun_uniform, lecun_normal")
	flagSeed     = flag.Uint64("seed", 1, "Random seed for weight initialization")
	flagSave     = flag.String("save", "", "Write the trained parameters to this SafeTensors file")
	flagProgress = flag.Bool("progress", true, "Show a progress bar while training")
)

var weightInits = map[string]nn.WeightInit{
	"glorot_uniform": nn.GlorotUniform,
	"glorot_normal":  nn.GlorotNormal,
	"he_uniform":     nn.HeUniform,
	"he_normal":      nn.HeNormal,
	"lecun_uniform":  nn.LecunUniform,
	"lecun_normal":   nn.LecunNormal,
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("scalargrad %s\n", version)
		return
	}

	weights, err := parseInit(*flagInit)
	must.M(err)

	model := newXORModel(*flagHidden, nn.InitConfig{Weights: weights, Seed: *flagSeed})

	cfg := train.Config{
		Epochs:   *flagEpochs,
		LR:       *flagLR,
		Momentum: *flagMomentum,
		Adam:     *flagAdam,
		LogEvery: max(*flagEpochs/10, 1),
	}
	var bar *progressbar.ProgressBar
	if *flagProgress && *flagEpochs > 0 {
		bar = newProgressBar(*flagEpochs)
		cfg.OnEpoch = func(_ int, loss float64) {
			bar.Describe(fmt.Sprintf("loss=%.5f", loss))
			_ = bar.Add(1)
		}
	}

	result, err := train.Run(model, xorSamples, cfg)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		klog.Errorf("training failed: %+v", err)
		os.Exit(1)
	}

	fmt.Printf("XOR MLP (2-%d-1, %s), %s parameters\n",
		*flagHidden, weights, humanize.Comma(int64(len(model.Parameters()))))
	fmt.Printf("final loss: %.6f\n", result.FinalLoss)
	for _, s := range xorSamples {
		fmt.Printf("  %v -> %.4f (want %g)\n", s.Input, train.Predict(model, s.Input)[0], s.Target[0])
	}

	if *flagSave != "" {
		must.M(saveModel(*flagSave, model, weights))
		klog.Infof("saved %d parameters to %s", len(model.Parameters()), *flagSave)
	}
}

var xorSamples = []train.Sample{
	{Input: []float64{0, 0}, Target: []float64{0}},
	{Input: []float64{0, 1}, Target: []float64{1}},
	{Input: []float64{1, 0}, Target: []float64{1}},
	{Input: []float64{1, 1}, Target: []float64{0}},
}

// newXORModel builds the 2-hidden-1 perceptron trained by the CLI.
func newXORModel(hidden int, cfg nn.InitConfig) *nn.Sequential {
	return nn.NewSequential(
		nn.NewLinear(2, hidden, cfg),
		nn.NewTanh(),
		nn.NewLinear(hidden, 1, cfg),
	)
}

// saveModel writes the parameters of model to path, tagged with the run
// metadata.
func saveModel(path string, model nn.Module, weights nn.WeightInit) error {
	metadata := map[string]string{
		"framework": "scalargrad",
		"version":   version,
		"init":      weights.String(),
		"run_id":    uuid.NewString(),
	}
	return serialization.SaveModule(path, model, metadata)
}

func parseInit(name string) (nn.WeightInit, error) {
	weights, ok := weightInits[name]
	if !ok {
		return 0, errors.Errorf("unknown weight init %q", name)
	}
	return weights, nil
}

func newProgressBar(epochs int) *progressbar.ProgressBar {
	return progressbar.NewOptions(epochs,
		progressbar.OptionSetDescription("training"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("epochs"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionSetWriter(os.Stderr),
	)
}
