// Package serialization saves and restores module parameters in the
// SafeTensors format.
//
// Every parameter is stored as a float64 ("F64") scalar tensor with an empty
// shape, so checkpoints can be inspected with the usual SafeTensors tooling.
//
// Format:
//
//	[8 bytes: header_size (uint64 LE)]
//	[header_size bytes: JSON header]
//	[tensor data: raw little-endian float64 values]
//
// Tensors are written in alphabetical order by name.
package serialization
