package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/scalargrad/internal/nn"
)

const (
	dtypeF64      = "F64"
	metadataKey   = "__metadata__"
	maxHeaderSize = 100 << 20 // Guard against corrupt size prefixes
)

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Encode writes values and metadata to w in SafeTensors format.
func Encode(w io.Writer, values map[string]float64, metadata map[string]string) error {
	// Sort tensor names alphabetically (SafeTensors requirement)
	names := make([]string, 0, len(values))
	for name := range values {
		if name == metadataKey {
			return errors.Errorf("serialization: %q is reserved", metadataKey)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}
	var offset int64
	for _, name := range names {
		header[name] = SafeTensorHeader{
			DType:       dtypeF64,
			Shape:       []int64{},
			DataOffsets: [2]int64{offset, offset + 8},
		}
		offset += 8
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "serialization: failed to marshal header")
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "serialization: failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "serialization: failed to write header")
	}

	buf := make([]byte, 8)
	for _, name := range names {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(values[name]))
		if _, err := w.Write(buf); err != nil {
			return errors.Wrapf(err, "serialization: failed to write tensor %s", name)
		}
	}
	return nil
}

// Decode reads values and metadata written by Encode.
//
// Only F64 tensors holding exactly one element are accepted.
func Decode(r io.Reader) (map[string]float64, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrap(err, "serialization: failed to read header size")
	}
	if headerSize > maxHeaderSize {
		return nil, nil, errors.Errorf("serialization: header size %d exceeds limit %d", headerSize, maxHeaderSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, errors.Wrap(err, "serialization: failed to read header")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, nil, errors.Wrap(err, "serialization: invalid header JSON")
	}

	var metadata map[string]string
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, errors.Wrap(err, "serialization: invalid metadata")
		}
		delete(raw, metadataKey)
	}

	headers := make(map[string]SafeTensorHeader, len(raw))
	var dataSize int64
	for name, msg := range raw {
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, errors.Wrapf(err, "serialization: invalid header for tensor %s", name)
		}
		if err := validateHeader(name, h); err != nil {
			return nil, nil, err
		}
		headers[name] = h
	}
	dataSize, err := validateOffsets(headers)
	if err != nil {
		return nil, nil, err
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, nil, errors.Wrap(err, "serialization: failed to read tensor data")
	}

	values := make(map[string]float64, len(headers))
	for name, h := range headers {
		bits := binary.LittleEndian.Uint64(data[h.DataOffsets[0]:h.DataOffsets[1]])
		values[name] = math.Float64frombits(bits)
	}
	return values, metadata, nil
}

func validateHeader(name string, h SafeTensorHeader) error {
	if h.DType != dtypeF64 {
		return errors.Errorf("serialization: tensor %s has dtype %s, want %s", name, h.DType, dtypeF64)
	}
	elements := int64(1)
	for _, dim := range h.Shape {
		if dim < 0 {
			return errors.Errorf("serialization: tensor %s has negative dimension in shape %v", name, h.Shape)
		}
		elements *= dim
	}
	if elements != 1 {
		return errors.Errorf("serialization: tensor %s has shape %v, want a scalar", name, h.Shape)
	}
	if h.DataOffsets[0] < 0 || h.DataOffsets[1]-h.DataOffsets[0] != 8 {
		return errors.Errorf("serialization: tensor %s has invalid data offsets %v", name, h.DataOffsets)
	}
	return nil
}

// validateOffsets checks that the tensors tile the data section without
// gaps or overlaps, starting at 0, and returns the data size.
func validateOffsets(headers map[string]SafeTensorHeader) (int64, error) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return headers[names[i]].DataOffsets[0] < headers[names[j]].DataOffsets[0]
	})

	var end int64
	for _, name := range names {
		offsets := headers[name].DataOffsets
		if offsets[0] < end {
			return 0, errors.Errorf("serialization: tensor %s at %v overlaps the previous tensor ending at %d",
				name, offsets, end)
		}
		if offsets[0] > end {
			return 0, errors.Errorf("serialization: gap before tensor %s at %v, previous tensor ends at %d",
				name, offsets, end)
		}
		end = offsets[1]
	}
	return end, nil
}

// WriteSafeTensors writes values to a SafeTensors file at path.
func WriteSafeTensors(path string, values map[string]float64, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "serialization: failed to create file")
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "serialization: failed to close file")
		}
	}()

	w := bufio.NewWriter(file)
	if err = Encode(w, values, metadata); err != nil {
		return err
	}
	return errors.Wrap(w.Flush(), "serialization: failed to flush file")
}

// ReadSafeTensors reads a SafeTensors file written by WriteSafeTensors.
func ReadSafeTensors(path string) (map[string]float64, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "serialization: failed to open file")
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()
	return Decode(bufio.NewReader(file))
}

// SaveModule writes the parameters of m to path.
func SaveModule(path string, m nn.Module, metadata map[string]string) error {
	stateDict := nn.StateDict(m)
	values := make(map[string]float64, len(stateDict))
	for name, p := range stateDict {
		values[name] = p.Data()
	}
	return WriteSafeTensors(path, values, metadata)
}

// LoadModule restores the parameters of m from path and returns the file
// metadata.
//
// Every parameter of m must be present in the file. Gradients are left
// untouched.
func LoadModule(path string, m nn.Module) (map[string]string, error) {
	values, metadata, err := ReadSafeTensors(path)
	if err != nil {
		return nil, err
	}
	stateDict := nn.StateDict(m)
	for name := range stateDict {
		if _, ok := values[name]; !ok {
			return nil, errors.Errorf("serialization: parameter %s missing from %s", name, path)
		}
	}
	for name, p := range stateDict {
		p.Value().SetData(values[name])
	}
	return metadata, nil
}
