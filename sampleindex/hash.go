package sampleindex

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/autofdo-go/sampleprofile/ir"
)

// hashSeed is the arbitrary initial value the original design borrows
// from its hash table implementation (0x9e3779b9, the golden-ratio
// constant commonly used to seed incremental hashes).
const hashSeed = 0x9e3779b9

// hashKey mixes a (stack, file, line, func) lookup key into a single
// machine word: each stack frame's file bytes then its 4-byte line,
// then the target file bytes, the target line, and finally the
// function name. For flat keys, stack is empty and stage (a) is
// skipped entirely.
//
// Hashing is done with an incremental xxh3 writer (mirroring this
// project's use of xxh3 for composite identifiers in libpf.FrameID and
// libpf.TraceHash) seeded by folding hashSeed into the stream first.
func hashKey(stack []ir.SourceLocation, file string, line int32, fn string) uint64 {
	h := xxh3.New()

	var seedBuf [4]byte
	binary.LittleEndian.PutUint32(seedBuf[:], hashSeed)
	_, _ = h.Write(seedBuf[:])

	var lineBuf [4]byte
	for _, frame := range stack {
		_, _ = h.WriteString(frame.File)
		binary.LittleEndian.PutUint32(lineBuf[:], uint32(frame.Line))
		_, _ = h.Write(lineBuf[:])
	}

	_, _ = h.WriteString(file)
	binary.LittleEndian.PutUint32(lineBuf[:], uint32(line))
	_, _ = h.Write(lineBuf[:])
	_, _ = h.WriteString(fn)

	return h.Sum64()
}
