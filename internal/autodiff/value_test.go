package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

func TestLeafConstructors(t *testing.T) {
	p := autodiff.New(1.5)
	assert.True(t, p.RequiresGrad())
	assert.True(t, p.IsLeaf())
	assert.Nil(t, p.Op())
	assert.Equal(t, 1.5, p.Data())
	assert.Equal(t, 0.0, p.Grad(), "grad before any backward pass")

	c := autodiff.Constant(2)
	assert.False(t, c.RequiresGrad())

	assert.True(t, autodiff.NewValue(0, true).RequiresGrad())
	assert.False(t, autodiff.NewValue(0, false).RequiresGrad())
}

func TestRequiresGradPropagation(t *testing.T) {
	a := autodiff.Constant(1)
	b := autodiff.Constant(2)
	p := autodiff.New(3)

	assert.False(t, a.Add(b).RequiresGrad(), "constants only")
	assert.True(t, a.Mul(p).RequiresGrad(), "one operand requires grad")
	assert.True(t, p.Tanh().RequiresGrad())
}

func TestForwardValues(t *testing.T) {
	a := autodiff.New(3)
	b := autodiff.New(4)

	tests := []struct {
		name string
		got  *autodiff.Value
		want float64
		op   string
	}{
		{"add", a.Add(b), 7, "Add"},
		{"sub", a.Sub(b), -1, "Sub"},
		{"mul", a.Mul(b), 12, "Mul"},
		{"div", a.Div(b), 0.75, "Div"},
		{"powf", a.Powf(2), 9, "Powf"},
		{"pow", a.Pow(b), 81, "Pow"},
		{"neg", a.Neg(), -3, "Neg"},
		{"exp", a.Exp(), math.Exp(3), "Exp"},
		{"log", a.Log(), math.Log(3), "Log"},
		{"relu", a.Neg().ReLU(), 0, "ReLU"},
		{"tanh", a.Tanh(), math.Tanh(3), "Tanh"},
		{"addf", a.Addf(1), 4, "Add"},
		{"mulf", a.Mulf(2), 6, "Mul"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got.Data(), 1e-12)
			require.NotNil(t, tt.got.Op())
			assert.Equal(t, tt.op, tt.got.Op().Name())
		})
	}
}

func TestOperationsDoNotMutateOperands(t *testing.T) {
	a := autodiff.New(3)
	b := autodiff.New(4)
	_ = a.Mul(b).Add(a).Div(b)
	assert.Equal(t, 3.0, a.Data())
	assert.Equal(t, 4.0, b.Data())
}

func TestOpInputsKeepHandles(t *testing.T) {
	a := autodiff.New(1)
	b := autodiff.New(2)
	c := a.Sub(b)

	inputs := c.Op().Inputs()
	require.Len(t, inputs, 2)
	assert.Same(t, a, inputs[0])
	assert.Same(t, b, inputs[1])

	powf, ok := a.Powf(3).Op().(*autodiff.PowfOp)
	require.True(t, ok)
	assert.Equal(t, 3.0, powf.Exponent())
	assert.Len(t, powf.Inputs(), 1)

	_, ok = a.Pow(b).Op().(*autodiff.PowOp)
	assert.True(t, ok, "node exponent is a distinct variant")
}

func TestDivisionByZero(t *testing.T) {
	a := autodiff.New(1)
	zero := autodiff.New(0)

	q := a.Div(zero)
	assert.True(t, math.IsInf(q.Data(), 1))

	nan := zero.Div(autodiff.New(0))
	assert.True(t, math.IsNaN(nan.Data()))

	assert.NotPanics(t, func() { q.Backward() })
	assert.True(t, math.IsInf(a.Grad(), 1), "1/0 propagates as +Inf")
}

func TestSetData(t *testing.T) {
	p := autodiff.New(1)
	p.SetData(5)
	assert.Equal(t, 5.0, p.Data())

	derived := p.Mulf(2)
	assert.Panics(t, func() { derived.SetData(0) })
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, autodiff.Sum(nil).Data())

	xs := []*autodiff.Value{autodiff.New(1), autodiff.New(2), autodiff.New(3)}
	s := autodiff.Sum(xs)
	assert.Equal(t, 6.0, s.Data())

	s.Backward()
	for _, x := range xs {
		assert.Equal(t, 1.0, x.Grad())
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "Value(data=2, grad=0)", autodiff.New(2).String())
}
