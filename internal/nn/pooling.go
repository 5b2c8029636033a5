package nn

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// PoolingFn reduces one pooling window to a single value.
type PoolingFn int

const (
	// MaxPooling keeps the largest value of the window. The gradient flows to
	// that value only.
	MaxPooling PoolingFn = iota
	// AvgPooling averages the window.
	AvgPooling
)

// Reduce applies the pooling function to a non-empty window.
func (fn PoolingFn) Reduce(window []*autodiff.Value) *autodiff.Value {
	if len(window) == 0 {
		exceptions.Panicf("PoolingFn.Reduce: empty window")
	}
	switch fn {
	case MaxPooling:
		best := window[0]
		for _, v := range window[1:] {
			if v.Data() > best.Data() {
				best = v
			}
		}
		return best
	case AvgPooling:
		return autodiff.Sum(window).Divf(float64(len(window)))
	default:
		exceptions.Panicf("PoolingFn.Reduce: unknown pooling function %d", int(fn))
		return nil
	}
}

// Pool2DConfig describes a 2D pooling layer and the input it accepts.
type Pool2DConfig struct {
	Fn       PoolingFn // Reduction applied per window
	Kernel   int       // Square window size
	Stride   int       // Stride (default: Kernel)
	Channels int       // Input channels
	Height   int       // Input height
	Width    int       // Input width
}

// Pool2D pools each channel of a channel-major input independently.
//
// Output has Channels*OutH*OutW values with OutH = (Height-Kernel)/Stride + 1
// and OutW = (Width-Kernel)/Stride + 1.
type Pool2D struct {
	fn                      PoolingFn
	kernel, stride          int
	channels, height, width int
	outH, outW              int
}

// NewPool2D creates a new pooling layer.
//
// Panics if the window does not fit the input.
func NewPool2D(cfg Pool2DConfig) *Pool2D {
	if cfg.Stride == 0 {
		cfg.Stride = cfg.Kernel
	}
	if cfg.Kernel <= 0 || cfg.Stride <= 0 || cfg.Channels <= 0 {
		exceptions.Panicf("NewPool2D: kernel, stride and channels must be positive")
	}
	if cfg.Kernel > cfg.Height || cfg.Kernel > cfg.Width {
		exceptions.Panicf("NewPool2D: kernel %d does not fit input %dx%d", cfg.Kernel, cfg.Height, cfg.Width)
	}
	return &Pool2D{
		fn:       cfg.Fn,
		kernel:   cfg.Kernel,
		stride:   cfg.Stride,
		channels: cfg.Channels,
		height:   cfg.Height,
		width:    cfg.Width,
		outH:     (cfg.Height-cfg.Kernel)/cfg.Stride + 1,
		outW:     (cfg.Width-cfg.Kernel)/cfg.Stride + 1,
	}
}

// Forward pools every window of every channel.
func (p *Pool2D) Forward(input []*autodiff.Value) []*autodiff.Value {
	checkInputLen("Pool2D", input, p.channels*p.height*p.width)

	output := make([]*autodiff.Value, p.channels*p.outH*p.outW)
	window := make([]*autodiff.Value, 0, p.kernel*p.kernel)
	for c := range p.channels {
		for y := range p.outH {
			for x := range p.outW {
				window = window[:0]
				for ky := range p.kernel {
					for kx := range p.kernel {
						iy, ix := y*p.stride+ky, x*p.stride+kx
						window = append(window, input[(c*p.height+iy)*p.width+ix])
					}
				}
				output[(c*p.outH+y)*p.outW+x] = p.fn.Reduce(window)
			}
		}
	}
	return output
}

// Parameters returns nil (pooling has no trainable parameters).
func (p *Pool2D) Parameters() []*Parameter {
	return nil
}

// OutputShape returns the (channels, height, width) of the output.
func (p *Pool2D) OutputShape() (channels, height, width int) {
	return p.channels, p.outH, p.outW
}
