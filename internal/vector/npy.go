// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package vector

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// npyMagic is the NumPy v1.0 file signature: \x93NUMPY followed by the
// version bytes 0x01 0x00.
var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y', 0x01, 0x00}

var (
	npyDescrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']+)'`)
	npyFortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	npyShapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// IsNPY reports whether data starts with the NumPy magic, regardless of
// format version.
func IsNPY(data []byte) bool {
	return len(data) >= 6 && bytes.Equal(data[:6], npyMagic[:6])
}

// DecodeNPY parses the narrow .npy subset embr stores: version 1.0,
// little-endian '<f4' or '<f8', C-order, one-dimensional. Float64 data
// is narrowed to float32.
func DecodeNPY(data []byte) (*Vector, error) {
	if len(data) < 10 || !bytes.Equal(data[:8], npyMagic) {
		return nil, embrerr.New(embrerr.CodeVectorDecodeInvalid, "not a NumPy v1.0 file")
	}

	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	if 10+headerLen > len(data) {
		return nil, embrerr.New(embrerr.CodeVectorDecodeInvalid, "npy header length exceeds file size")
	}
	header := string(data[10 : 10+headerLen])

	descr, err := npyHeaderField(header, npyDescrRe, "descr")
	if err != nil {
		return nil, err
	}
	itemSize := 0
	switch descr {
	case "<f4":
		itemSize = 4
	case "<f8":
		itemSize = 8
	default:
		return nil, embrerr.Errorf(embrerr.CodeVectorDecodeInvalid, "unsupported npy dtype %q", descr)
	}

	fortran, err := npyHeaderField(header, npyFortranRe, "fortran_order")
	if err != nil {
		return nil, err
	}
	if fortran != "False" {
		return nil, embrerr.New(embrerr.CodeVectorDecodeInvalid, "fortran-order npy arrays are not supported")
	}

	count, err := npyShape(header)
	if err != nil {
		return nil, err
	}

	payload := data[10+headerLen:]
	if len(payload) != count*itemSize {
		return nil, embrerr.Errorf(embrerr.CodeVectorDecodeInvalid,
			"npy payload is %d bytes, want %d for shape (%d,)", len(payload), count*itemSize, count)
	}

	values := make([]float32, count)
	switch itemSize {
	case 4:
		for i := range values {
			bits := binary.LittleEndian.Uint32(payload[i*4:])
			values[i] = math.Float32frombits(bits)
		}
	case 8:
		for i := range values {
			bits := binary.LittleEndian.Uint64(payload[i*8:])
			values[i] = float32(math.Float64frombits(bits))
		}
	}

	return New(values), nil
}

// EncodeNPY renders values as a v1.0 little-endian '<f4' 1-D array.
// The header is space-padded so the payload starts on a 64-byte boundary.
func EncodeNPY(values []float32) []byte {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d,), }", len(values))
	// Pad header (including the 10 preamble bytes and trailing newline)
	// to a multiple of 64.
	total := 10 + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += strings.Repeat(" ", 64-pad)
	}
	header += "\n"

	buf := make([]byte, 0, 10+len(header)+4*len(values))
	buf = append(buf, npyMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func npyHeaderField(header string, re *regexp.Regexp, name string) (string, error) {
	m := re.FindStringSubmatch(header)
	if m == nil {
		return "", embrerr.Errorf(embrerr.CodeVectorDecodeInvalid, "npy header missing %s", name)
	}
	return m[1], nil
}

func npyShape(header string) (int, error) {
	m := npyShapeRe.FindStringSubmatch(header)
	if m == nil {
		return 0, embrerr.New(embrerr.CodeVectorDecodeInvalid, "npy header missing shape")
	}

	dims := strings.Split(strings.TrimSuffix(strings.TrimSpace(m[1]), ","), ",")
	if len(dims) != 1 || strings.TrimSpace(dims[0]) == "" {
		return 0, embrerr.Errorf(embrerr.CodeVectorDecodeInvalid, "npy shape (%s) is not one-dimensional", m[1])
	}

	count, err := strconv.Atoi(strings.TrimSpace(dims[0]))
	if err != nil || count < 0 {
		return 0, embrerr.Errorf(embrerr.CodeVectorDecodeInvalid, "npy shape (%s) is not a valid length", m[1])
	}
	return count, nil
}
