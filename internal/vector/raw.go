// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package vector

import (
	"encoding/binary"
	"math"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// DecodeRaw interprets data as a contiguous little-endian float32 stream.
// The length must be a non-zero multiple of four bytes.
func DecodeRaw(data []byte) (*Vector, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, embrerr.Errorf(embrerr.CodeVectorDecodeInvalid,
			"raw payload is %d bytes, want a non-zero multiple of 4", len(data))
	}

	values := make([]float32, len(data)/4)
	for i := range values {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		values[i] = math.Float32frombits(bits)
	}
	return New(values), nil
}

// EncodeRaw renders values as the little-endian float32 stream DecodeRaw
// accepts.
func EncodeRaw(values []float32) []byte {
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
