// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package delta implements the compact binary diff format used to
// store successive versions of a raw payload relative to a base.
//
// Container layout, all fields little-endian:
//
//	magic   "EBD>" (4 bytes)
//	version u32 = 1
//	target  u64 = length of the reconstructed payload
//	commands: repeated { offset u64, size u8 (1-255), payload [size]byte }
//
// Each command overwrites size bytes at an absolute offset of the
// target. The codec assumes both payloads share element size and
// endianness; callers validate that.
package delta

import (
	"bytes"
	"encoding/binary"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

var magic = []byte("EBD>")

const (
	version     = 1
	headerLen   = 4 + 4 + 8
	maxCmdSize  = 255
	compareStep = 8192
)

// Encode produces a delta that rebuilds target from base.
func Encode(base, target []byte) []byte {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.Write(binary.LittleEndian.AppendUint32(nil, version))
	buf.Write(binary.LittleEndian.AppendUint64(nil, uint64(len(target))))

	common := min(len(base), len(target))

	// Scan the shared region in fixed windows, emitting one command per
	// run of differing bytes (capped at 255 per command).
	for start := 0; start < common; start += compareStep {
		end := min(start+compareStep, common)
		emitWindowDiffs(&buf, base[start:end], target[start:end], start)
	}

	// Everything past the shared region is new payload.
	for off := common; off < len(target); off += maxCmdSize {
		end := min(off+maxCmdSize, len(target))
		writeCommand(&buf, uint64(off), target[off:end])
	}

	return buf.Bytes()
}

func emitWindowDiffs(buf *bytes.Buffer, base, target []byte, windowStart int) {
	i := 0
	for i < len(target) {
		if base[i] == target[i] {
			i++
			continue
		}

		run := i
		for run < len(target) && base[run] != target[run] && run-i < maxCmdSize {
			run++
		}
		writeCommand(buf, uint64(windowStart+i), target[i:run])
		i = run
	}
}

func writeCommand(buf *bytes.Buffer, offset uint64, payload []byte) {
	buf.Write(binary.LittleEndian.AppendUint64(nil, offset))
	buf.WriteByte(byte(len(payload)))
	buf.Write(payload)
}

// Apply rebuilds the target payload from base and a delta produced by
// Encode.
func Apply(base, delta []byte) ([]byte, error) {
	if len(delta) < headerLen || !bytes.Equal(delta[:4], magic) {
		return nil, embrerr.New(embrerr.CodeDeltaInvalid, "delta container has no EBD> magic")
	}
	if v := binary.LittleEndian.Uint32(delta[4:8]); v != version {
		return nil, embrerr.Errorf(embrerr.CodeDeltaInvalid, "unsupported delta version %d", v)
	}

	targetLen := binary.LittleEndian.Uint64(delta[8:headerLen])
	out := make([]byte, targetLen)
	copy(out, base)

	cmds := delta[headerLen:]
	for len(cmds) > 0 {
		if len(cmds) < 9 {
			return nil, embrerr.New(embrerr.CodeDeltaInvalid, "truncated delta command header")
		}
		offset := binary.LittleEndian.Uint64(cmds[:8])
		size := int(cmds[8])
		cmds = cmds[9:]

		if size == 0 {
			return nil, embrerr.New(embrerr.CodeDeltaInvalid, "delta command has zero size")
		}
		if len(cmds) < size {
			return nil, embrerr.New(embrerr.CodeDeltaInvalid, "truncated delta command payload")
		}
		// Two-step check so offset+size cannot wrap around uint64.
		if offset >= targetLen || uint64(size) > targetLen-offset {
			return nil, embrerr.Errorf(embrerr.CodeDeltaInvalid,
				"delta command writes past output end (offset %d size %d len %d)", offset, size, targetLen)
		}

		copy(out[offset:], cmds[:size])
		cmds = cmds[size:]
	}

	return out, nil
}
