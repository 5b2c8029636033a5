package nn

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// convolution is a direct convolution over a channel-major input with three
// spatial axes (depth, height, width). Conv1D and Conv2D use it with the
// leading axes fixed to size one.
type convolution struct {
	layer                   string
	rank                    int // Spatial axes named in parameter names (1, 2 or 3)
	inChannels, outChannels int
	kernel                  [3]int // depth, height, width
	stride                  [3]int
	pad                     [3]int
	size                    [3]int // input depth, height, width
	out                     [3]int // output depth, height, width
	weight                  []*Parameter // [out][in][kd][kh][kw], flattened
	bias                    []*Parameter // [out], nil without bias
}

func newConvolution(
	layer string,
	rank int,
	inChannels, outChannels int,
	kernel, stride, pad, size [3]int,
	useBias bool,
	cfg InitConfig,
) *convolution {
	if inChannels <= 0 || outChannels <= 0 {
		exceptions.Panicf("New%s: channels must be positive, got in=%d out=%d", layer, inChannels, outChannels)
	}
	var out [3]int
	for axis := range 3 {
		if kernel[axis] <= 0 || stride[axis] <= 0 {
			exceptions.Panicf("New%s: kernel and stride must be positive", layer)
		}
		if pad[axis] < 0 {
			exceptions.Panicf("New%s: padding must not be negative", layer)
		}
		padded := size[axis] + 2*pad[axis]
		if size[axis] <= 0 || padded < kernel[axis] {
			exceptions.Panicf("New%s: kernel %v does not fit padded input %v", layer, kernel[3-rank:], size[3-rank:])
		}
		out[axis] = (padded-kernel[axis])/stride[axis] + 1
	}

	src := cfg.source()
	receptive := kernel[0] * kernel[1] * kernel[2]
	fanning := Fan(inChannels*receptive, outChannels*receptive)

	c := &convolution{
		layer:       layer,
		rank:        rank,
		inChannels:  inChannels,
		outChannels: outChannels,
		kernel:      kernel,
		stride:      stride,
		pad:         pad,
		size:        size,
		out:         out,
		weight:      make([]*Parameter, outChannels*inChannels*receptive),
	}
	for o := range outChannels {
		for ch := range inChannels {
			for kd := range kernel[0] {
				for kh := range kernel[1] {
					for kw := range kernel[2] {
						idx := c.weightIndex(o, ch, kd, kh, kw)
						c.weight[idx] = NewParameter(c.weightName(o, ch, kd, kh, kw), cfg.Weights.Sample(fanning, src))
					}
				}
			}
		}
	}

	if useBias {
		c.bias = make([]*Parameter, outChannels)
		for o := range c.bias {
			c.bias[o] = NewParameter(fmt.Sprintf("bias[%d]", o), autodiff.New(0))
		}
	}
	return c
}

func (c *convolution) weightIndex(o, ch, kd, kh, kw int) int {
	return (((o*c.inChannels+ch)*c.kernel[0]+kd)*c.kernel[1]+kh)*c.kernel[2] + kw
}

// weightName lists only the spatial axes of the layer's rank, e.g.
// "weight[o][c][kx]" for Conv1D.
func (c *convolution) weightName(o, ch, kd, kh, kw int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "weight[%d][%d]", o, ch)
	for _, k := range []int{kd, kh, kw}[3-c.rank:] {
		fmt.Fprintf(&b, "[%d]", k)
	}
	return b.String()
}

func (c *convolution) inputLen() int {
	return c.inChannels * c.size[0] * c.size[1] * c.size[2]
}

// forward convolves the input with every filter. Padded positions
// contribute nothing to the sum, which is the same as padding with zeros.
func (c *convolution) forward(input []*autodiff.Value) []*autodiff.Value {
	checkInputLen(c.layer, input, c.inputLen())

	depth, height, width := c.size[0], c.size[1], c.size[2]
	outD, outH, outW := c.out[0], c.out[1], c.out[2]
	output := make([]*autodiff.Value, c.outChannels*outD*outH*outW)
	terms := make([]*autodiff.Value, 0, c.inChannels*c.kernel[0]*c.kernel[1]*c.kernel[2]+1)

	for o := range c.outChannels {
		for z := range outD {
			for y := range outH {
				for x := range outW {
					terms = terms[:0]
					if c.bias != nil {
						terms = append(terms, c.bias[o].Value())
					}
					for ch := range c.inChannels {
						for kd := range c.kernel[0] {
							id := z*c.stride[0] + kd - c.pad[0]
							if id < 0 || id >= depth {
								continue
							}
							for kh := range c.kernel[1] {
								ih := y*c.stride[1] + kh - c.pad[1]
								if ih < 0 || ih >= height {
									continue
								}
								for kw := range c.kernel[2] {
									iw := x*c.stride[2] + kw - c.pad[2]
									if iw < 0 || iw >= width {
										continue
									}
									w := c.weight[c.weightIndex(o, ch, kd, kh, kw)].Value()
									terms = append(terms, w.Mul(input[((ch*depth+id)*height+ih)*width+iw]))
								}
							}
						}
					}
					output[((o*outD+z)*outH+y)*outW+x] = autodiff.Sum(terms)
				}
			}
		}
	}
	return output
}

func (c *convolution) parameters() []*Parameter {
	params := make([]*Parameter, 0, len(c.weight)+len(c.bias))
	params = append(params, c.weight...)
	return append(params, c.bias...)
}

// Conv2DConfig describes a 2D convolution and the input it accepts.
type Conv2DConfig struct {
	InChannels  int  // Input channels
	OutChannels int  // Output channels (number of filters)
	KernelH     int  // Kernel height
	KernelW     int  // Kernel width
	Stride      int  // Stride along both axes (default: 1)
	Padding     int  // Zero padding along both axes (default: 0)
	Height      int  // Input height
	Width       int  // Input width
	UseBias     bool // Add one bias per output channel
}

// Conv2D implements a direct 2D convolution over a channel-major input.
//
// Input has InChannels*Height*Width values, indexed (c*Height + h)*Width + w.
// Output has OutChannels*OutH*OutW values in the same layout, where
//
//	OutH = (Height + 2*Padding - KernelH)/Stride + 1
//	OutW = (Width  + 2*Padding - KernelW)/Stride + 1
//
// Padded positions contribute nothing to the sum, which is the same as
// padding with zeros.
//
// Example:
//
//	conv := nn.NewConv2D(nn.Conv2DConfig{
//	    InChannels: 1, OutChannels: 4, KernelH: 3, KernelW: 3,
//	    Padding: 1, Height: 8, Width: 8, UseBias: true,
//	}, nn.InitConfig{})
type Conv2D struct {
	conv *convolution
}

// NewConv2D creates a new Conv2D layer.
//
// Weights are sampled with fan-in InChannels*KernelH*KernelW and fan-out
// OutChannels*KernelH*KernelW. Biases start at zero.
//
// Panics if the kernel does not fit the padded input.
func NewConv2D(conv Conv2DConfig, cfg InitConfig) *Conv2D {
	if conv.Stride == 0 {
		conv.Stride = 1
	}
	return &Conv2D{conv: newConvolution("Conv2D", 2, conv.InChannels, conv.OutChannels,
		[3]int{1, conv.KernelH, conv.KernelW},
		[3]int{1, conv.Stride, conv.Stride},
		[3]int{0, conv.Padding, conv.Padding},
		[3]int{1, conv.Height, conv.Width},
		conv.UseBias, cfg)}
}

// Forward convolves the input with every filter.
//
// Panics if len(input) != InChannels*Height*Width.
func (c *Conv2D) Forward(input []*autodiff.Value) []*autodiff.Value {
	return c.conv.forward(input)
}

// Parameters returns the weights followed by the biases.
func (c *Conv2D) Parameters() []*Parameter {
	return c.conv.parameters()
}

// OutputShape returns the (channels, height, width) of the output.
func (c *Conv2D) OutputShape() (channels, height, width int) {
	return c.conv.outChannels, c.conv.out[1], c.conv.out[2]
}

// Conv1DConfig describes a 1D convolution and the input it accepts.
type Conv1DConfig struct {
	InChannels  int  // Input channels
	OutChannels int  // Output channels (number of filters)
	Kernel      int  // Kernel length
	Stride      int  // Stride (default: 1)
	Padding     int  // Zero padding at both ends (default: 0)
	Length      int  // Input length
	UseBias     bool // Add one bias per output channel
}

// Conv1D implements a direct 1D convolution over a channel-major input of
// InChannels*Length values.
type Conv1D struct {
	conv *convolution
}

// NewConv1D creates a new Conv1D layer.
func NewConv1D(conv Conv1DConfig, cfg InitConfig) *Conv1D {
	if conv.Stride == 0 {
		conv.Stride = 1
	}
	return &Conv1D{conv: newConvolution("Conv1D", 1, conv.InChannels, conv.OutChannels,
		[3]int{1, 1, conv.Kernel},
		[3]int{1, 1, conv.Stride},
		[3]int{0, 0, conv.Padding},
		[3]int{1, 1, conv.Length},
		conv.UseBias, cfg)}
}

// Forward convolves the input with every filter.
func (c *Conv1D) Forward(input []*autodiff.Value) []*autodiff.Value {
	return c.conv.forward(input)
}

// Parameters returns the weights followed by the biases.
func (c *Conv1D) Parameters() []*Parameter {
	return c.conv.parameters()
}

// OutputShape returns the (channels, length) of the output.
func (c *Conv1D) OutputShape() (channels, length int) {
	return c.conv.outChannels, c.conv.out[2]
}

// Conv3DConfig describes a 3D convolution and the input it accepts.
type Conv3DConfig struct {
	InChannels  int  // Input channels
	OutChannels int  // Output channels (number of filters)
	KernelD     int  // Kernel depth
	KernelH     int  // Kernel height
	KernelW     int  // Kernel width
	Stride      int  // Stride along all axes (default: 1)
	Padding     int  // Zero padding along all axes (default: 0)
	Depth       int  // Input depth
	Height      int  // Input height
	Width       int  // Input width
	UseBias     bool // Add one bias per output channel
}

// Conv3D implements a direct 3D convolution over a channel-major input of
// InChannels*Depth*Height*Width values, indexed
// ((c*Depth + d)*Height + h)*Width + w. The output uses the same layout.
type Conv3D struct {
	conv *convolution
}

// NewConv3D creates a new Conv3D layer.
//
// Panics if the kernel does not fit the padded input.
func NewConv3D(conv Conv3DConfig, cfg InitConfig) *Conv3D {
	if conv.Stride == 0 {
		conv.Stride = 1
	}
	return &Conv3D{conv: newConvolution("Conv3D", 3, conv.InChannels, conv.OutChannels,
		[3]int{conv.KernelD, conv.KernelH, conv.KernelW},
		[3]int{conv.Stride, conv.Stride, conv.Stride},
		[3]int{conv.Padding, conv.Padding, conv.Padding},
		[3]int{conv.Depth, conv.Height, conv.Width},
		conv.UseBias, cfg)}
}

// Forward convolves the input with every filter.
//
// Panics if len(input) != InChannels*Depth*Height*Width.
func (c *Conv3D) Forward(input []*autodiff.Value) []*autodiff.Value {
	return c.conv.forward(input)
}

// Parameters returns the weights followed by the biases.
func (c *Conv3D) Parameters() []*Parameter {
	return c.conv.parameters()
}

// OutputShape returns the (channels, depth, height, width) of the output.
func (c *Conv3D) OutputShape() (channels, depth, height, width int) {
	return c.conv.outChannels, c.conv.out[0], c.conv.out[1], c.conv.out[2]
}
