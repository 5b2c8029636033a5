package serialization_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/nn"
	"github.com/born-ml/scalargrad/internal/serialization"
)

func TestEncodeDecode(t *testing.T) {
	values := map[string]float64{"b": -0.25, "a": 3.5, "c": 0}
	metadata := map[string]string{"framework": "scalargrad"}

	var buf bytes.Buffer
	require.NoError(t, serialization.Encode(&buf, values, metadata))

	gotValues, gotMetadata, err := serialization.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, values, gotValues)
	assert.Equal(t, metadata, gotMetadata)
}

func TestEncode_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, serialization.Encode(&buf, map[string]float64{"w": 1}, nil))

	data := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(data[:8])
	header := string(data[8 : 8+headerSize])
	assert.Contains(t, header, `"dtype":"F64"`)
	assert.Contains(t, header, `"shape":[]`)
	assert.NotContains(t, header, "__metadata__")
	assert.Len(t, data, 8+int(headerSize)+8)
}

func TestEncode_ReservedName(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, serialization.Encode(&buf, map[string]float64{"__metadata__": 1}, nil))
}

func TestDecode_Invalid(t *testing.T) {
	_, _, err := serialization.Decode(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err, "truncated size prefix")

	header := []byte(`{"w":{"dtype":"F32","shape":[],"data_offsets":[0,4]}}`)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.Write(header)
	buf.Write([]byte{0, 0, 0, 0})
	_, _, err = serialization.Decode(&buf)
	assert.ErrorContains(t, err, "dtype F32")

	buf.Reset()
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(1<<40)))
	_, _, err = serialization.Decode(&buf)
	assert.ErrorContains(t, err, "exceeds limit")
}

// encodeRaw writes a SafeTensors stream with a hand-written header.
func encodeRaw(t *testing.T, header string, data []byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.WriteString(header)
	buf.Write(data)
	return &buf
}

func TestDecode_RejectsNegativeDimensions(t *testing.T) {
	buf := encodeRaw(t, `{"a":{"dtype":"F64","shape":[-1,-1],"data_offsets":[0,8]}}`, make([]byte, 8))
	_, _, err := serialization.Decode(buf)
	assert.ErrorContains(t, err, "negative dimension")
}

func TestDecode_ValidatesOffsets(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   int
		want   string
	}{
		{
			name:   "overlap",
			header: `{"a":{"dtype":"F64","shape":[],"data_offsets":[0,8]},"b":{"dtype":"F64","shape":[],"data_offsets":[0,8]}}`,
			data:   16,
			want:   "overlaps",
		},
		{
			name:   "gap at start",
			header: `{"a":{"dtype":"F64","shape":[],"data_offsets":[8,16]}}`,
			data:   16,
			want:   "gap",
		},
		{
			name:   "gap between tensors",
			header: `{"a":{"dtype":"F64","shape":[],"data_offsets":[0,8]},"b":{"dtype":"F64","shape":[],"data_offsets":[16,24]}}`,
			data:   24,
			want:   "gap",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := serialization.Decode(encodeRaw(t, tt.header, make([]byte, tt.data)))
			assert.ErrorContains(t, err, tt.want)
		})
	}

	// Tensors need not be listed in offset order.
	header := `{"b":{"dtype":"F64","shape":[1],"data_offsets":[0,8]},"a":{"dtype":"F64","shape":[],"data_offsets":[8,16]}}`
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data[0:], math.Float64bits(2.5))
	binary.LittleEndian.PutUint64(data[8:], math.Float64bits(-1))
	values, _, err := serialization.Decode(encodeRaw(t, header, data))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": -1, "b": 2.5}, values)
}

func TestSaveLoadModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")

	newModel := func(seed uint64) *nn.Sequential {
		cfg := nn.InitConfig{Seed: seed}
		return nn.NewSequential(nn.NewLinear(2, 3, cfg), nn.NewTanh(), nn.NewLinear(3, 1, cfg), nn.NewBatchNorm(0))
	}

	saved := newModel(1)
	require.NoError(t, serialization.SaveModule(path, saved, map[string]string{"epochs": "10"}))

	loaded := newModel(2)
	metadata, err := serialization.LoadModule(path, loaded)
	require.NoError(t, err)
	assert.Equal(t, "10", metadata["epochs"])

	want := nn.StateDict(saved)
	got := nn.StateDict(loaded)
	require.Len(t, got, len(want))
	assert.Contains(t, got, "0.weight[1][0]")
	assert.Contains(t, got, "3.gamma")
	for name, p := range want {
		assert.Equal(t, p.Data(), got[name].Data(), name)
	}
}

func TestLoadModule_MissingParameter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.safetensors")
	require.NoError(t, serialization.SaveModule(path, nn.NewLinear(1, 1, nn.InitConfig{}), nil))

	_, err := serialization.LoadModule(path, nn.NewLinear(2, 1, nn.InitConfig{}))
	assert.ErrorContains(t, err, "missing")

	_, err = serialization.LoadModule(filepath.Join(t.TempDir(), "absent"), nn.NewLinear(1, 1, nn.InitConfig{}))
	assert.Error(t, err)
}
