package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/nn"
)

// setParams overwrites the parameters of m in order.
func setParams(t *testing.T, m nn.Module, data ...float64) {
	t.Helper()
	params := m.Parameters()
	require.Len(t, params, len(data))
	for i, p := range params {
		p.Value().SetData(data[i])
	}
}

func TestParameter(t *testing.T) {
	v := autodiff.New(0.5)
	p := nn.NewParameter("test_param", v)

	assert.Equal(t, "test_param", p.Name())
	assert.Same(t, v, p.Value())
	assert.Equal(t, 0.5, p.Data())

	v.Mulf(3).Backward()
	assert.Equal(t, 3.0, p.Grad())

	p.ZeroGrad()
	assert.Zero(t, p.Grad())

	values := nn.Values([]*nn.Parameter{p})
	require.Len(t, values, 1)
	assert.Same(t, v, values[0])
}

func TestLinear_Forward(t *testing.T) {
	layer := nn.NewLinear(3, 2, nn.InitConfig{Seed: 1})
	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 2, layer.OutFeatures())
	require.Len(t, layer.Parameters(), 8)

	// weights row by row, then biases
	setParams(t, layer, 1, 2, 3, -1, 0, 1, 0.5, -0.5)

	out := layer.Forward(nn.Constants([]float64{1, 2, 3}))
	assert.Equal(t, []float64{14.5, 1.5}, nn.Data(out))
}

func TestLinear_Gradients(t *testing.T) {
	layer := nn.NewLinear(2, 1, nn.InitConfig{})
	setParams(t, layer, 0.3, -0.7, 0.1)

	out := layer.Forward(nn.Constants([]float64{2, 5}))
	out[0].Backward()

	assert.Equal(t, 2.0, layer.Weight(0, 0).Grad())
	assert.Equal(t, 5.0, layer.Weight(0, 1).Grad())
	assert.Equal(t, 1.0, layer.Bias(0).Grad())
}

func TestLinear_InitDeterministic(t *testing.T) {
	a := nn.NewLinear(4, 3, nn.InitConfig{Weights: nn.HeNormal, Seed: 42})
	b := nn.NewLinear(4, 3, nn.InitConfig{Weights: nn.HeNormal, Seed: 42})
	for i, p := range a.Parameters() {
		assert.Equal(t, p.Data(), b.Parameters()[i].Data())
	}
	assert.Zero(t, a.Bias(0).Data(), "biases start at zero")
}

func TestLinear_WrongInputPanics(t *testing.T) {
	layer := nn.NewLinear(3, 2, nn.InitConfig{})
	assert.Panics(t, func() { layer.Forward(nn.Constants([]float64{1, 2})) })
	assert.Panics(t, func() { nn.NewLinear(0, 2, nn.InitConfig{}) })
}

func TestActivations(t *testing.T) {
	input := nn.Constants([]float64{-1, 0, 2})

	assert.Equal(t, []float64{0, 0, 2}, nn.Data(nn.NewReLU().Forward(input)))
	assert.InDeltaSlice(t, []float64{-0.7615941559557649, 0, 0.9640275800758169},
		nn.Data(nn.NewTanh().Forward(input)), 1e-12)

	probs := nn.Data(nn.NewSoftmax().Forward(input))
	require.Len(t, probs, 3)
	assert.InDelta(t, 1.0, probs[0]+probs[1]+probs[2], 1e-12)
	assert.Greater(t, probs[2], probs[1])

	assert.Nil(t, nn.NewReLU().Parameters())
	assert.Nil(t, nn.NewTanh().Parameters())
	assert.Nil(t, nn.NewSoftmax().Parameters())
}

func TestSequential(t *testing.T) {
	l1 := nn.NewLinear(2, 3, nn.InitConfig{Seed: 1})
	l2 := nn.NewLinear(3, 1, nn.InitConfig{Seed: 2})
	model := nn.NewSequential(l1, nn.NewTanh())
	model.Add(l2)

	assert.Equal(t, 3, model.Len())
	assert.Same(t, l2, model.Module(2))
	assert.Panics(t, func() { model.Module(3) })
	assert.Len(t, model.Parameters(), len(l1.Parameters())+len(l2.Parameters()))

	out := model.Forward(nn.Constants([]float64{0.5, -0.5}))
	require.Len(t, out, 1)

	out[0].Backward()
	nonZero := 0
	for _, p := range model.Parameters() {
		if p.Grad() != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero)

	nn.ZeroGrad(model)
	for _, p := range model.Parameters() {
		assert.Zero(t, p.Grad())
	}
}

func TestMSE(t *testing.T) {
	pred := []*autodiff.Value{autodiff.New(1), autodiff.New(2)}
	loss := nn.MSE(pred, nn.Constants([]float64{0, 0}))
	assert.Equal(t, 2.5, loss.Data())

	loss.Backward()
	assert.InDelta(t, 1.0, pred[0].Grad(), 1e-12)
	assert.InDelta(t, 2.0, pred[1].Grad(), 1e-12)

	assert.Panics(t, func() { nn.MSE(pred, nn.Constants([]float64{1})) })
}

func TestCrossEntropy(t *testing.T) {
	p := autodiff.New(0.25)
	probs := []*autodiff.Value{autodiff.New(0.75), p}

	loss := nn.CrossEntropy(probs, 1)
	assert.InDelta(t, 1.3862943611198906, loss.Data(), 1e-12)

	loss.Backward()
	assert.InDelta(t, -4.0, p.Grad(), 1e-12)

	assert.Panics(t, func() { nn.CrossEntropy(probs, 2) })
}

func TestCrossEntropyOverSoftmax(t *testing.T) {
	// d(-log softmax_k)/dx_j = softmax_j - δ_jk
	logits := []*autodiff.Value{autodiff.New(0.2), autodiff.New(-1), autodiff.New(1.5)}
	probs := autodiff.Softmax(logits)
	nn.CrossEntropy(probs, 2).Backward()

	for j, x := range logits {
		want := probs[j].Data()
		if j == 2 {
			want--
		}
		assert.InDelta(t, want, x.Grad(), 1e-12, "logit %d", j)
	}
}
