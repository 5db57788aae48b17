// Package profile implements the on-disk binary sample file format and
// the reader/writer that translate it to and from an in-memory
// sampleindex.Index. The layout follows the original design's section
// 6.1 exactly: a fixed file header naming three regions (string table,
// function-header table, profile-data region), little-endian, fixed
// widths throughout.
package profile

import "encoding/binary"

const (
	// fileHeaderSize is the on-disk size of fileHeader.
	fileHeaderSize = 40

	// funcHeaderSize is the on-disk size of a funcHeader (also used for
	// inline-callsite headers, which share the same layout).
	funcHeaderSize = 68

	// freqRecordSize is the on-disk size of a freqRecord.
	freqRecordSize = 16

	// stackEntrySize is the on-disk size of a stackEntry.
	stackEntrySize = 8

	// maxStack is the maximum inline-stack depth this module will parse.
	// Matches FB_INLINE_MAX_STACK from the original design.
	maxStack = 200
)

// fileHeader is the fixed-layout region at offset 0 of a sample file.
type fileHeader struct {
	strTableOffset uint64
	strTableSize   uint64
	funcHdrOffset  uint64
	funcHdrEntSize uint32
	funcHdrNum     uint32
	profileOffset  uint64
}

func (h *fileHeader) marshal() []byte {
	b := make([]byte, fileHeaderSize)
	binary.LittleEndian.PutUint64(b[0:8], h.strTableOffset)
	binary.LittleEndian.PutUint64(b[8:16], h.strTableSize)
	binary.LittleEndian.PutUint64(b[16:24], h.funcHdrOffset)
	binary.LittleEndian.PutUint32(b[24:28], h.funcHdrEntSize)
	binary.LittleEndian.PutUint32(b[28:32], h.funcHdrNum)
	binary.LittleEndian.PutUint64(b[32:40], h.profileOffset)
	return b
}

func unmarshalFileHeader(b []byte) fileHeader {
	var h fileHeader
	h.strTableOffset = binary.LittleEndian.Uint64(b[0:8])
	h.strTableSize = binary.LittleEndian.Uint64(b[8:16])
	h.funcHdrOffset = binary.LittleEndian.Uint64(b[16:24])
	h.funcHdrEntSize = binary.LittleEndian.Uint32(b[24:28])
	h.funcHdrNum = binary.LittleEndian.Uint32(b[28:32])
	h.profileOffset = binary.LittleEndian.Uint64(b[32:40])
	return h
}

// funcHeader describes one top-level function's samples (inline_depth
// == 0) or, reusing the same layout, one inline-callsite header
// (inline_depth > 0). This mirrors the source's func_sample_hdr being
// reused verbatim for inline entries.
type funcHeader struct {
	filenameOffset     uint32
	funcNameOffset     uint32
	funcProfileOffset  uint64
	funcFreqOffset     uint64
	funcInlineHdrOffset uint64
	inlineStackOffset  uint64
	numFreqEntries     uint64
	numInlineEntries   uint64
	totalSamples       int64
	inlineDepth        uint32
}

func (h *funcHeader) marshal() []byte {
	b := make([]byte, funcHeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.filenameOffset)
	binary.LittleEndian.PutUint32(b[4:8], h.funcNameOffset)
	binary.LittleEndian.PutUint64(b[8:16], h.funcProfileOffset)
	binary.LittleEndian.PutUint64(b[16:24], h.funcFreqOffset)
	binary.LittleEndian.PutUint64(b[24:32], h.funcInlineHdrOffset)
	binary.LittleEndian.PutUint64(b[32:40], h.inlineStackOffset)
	binary.LittleEndian.PutUint64(b[40:48], h.numFreqEntries)
	binary.LittleEndian.PutUint64(b[48:56], h.numInlineEntries)
	binary.LittleEndian.PutUint64(b[56:64], uint64(h.totalSamples))
	binary.LittleEndian.PutUint32(b[64:68], h.inlineDepth)
	return b
}

func unmarshalFuncHeader(b []byte) funcHeader {
	var h funcHeader
	h.filenameOffset = binary.LittleEndian.Uint32(b[0:4])
	h.funcNameOffset = binary.LittleEndian.Uint32(b[4:8])
	h.funcProfileOffset = binary.LittleEndian.Uint64(b[8:16])
	h.funcFreqOffset = binary.LittleEndian.Uint64(b[16:24])
	h.funcInlineHdrOffset = binary.LittleEndian.Uint64(b[24:32])
	h.inlineStackOffset = binary.LittleEndian.Uint64(b[32:40])
	h.numFreqEntries = binary.LittleEndian.Uint64(b[40:48])
	h.numInlineEntries = binary.LittleEndian.Uint64(b[48:56])
	h.totalSamples = int64(binary.LittleEndian.Uint64(b[56:64]))
	h.inlineDepth = binary.LittleEndian.Uint32(b[64:68])
	return h
}

// freqRecord is a per-line frequency record: the sampled frequency at a
// source line and the number of sampled instructions that contributed.
type freqRecord struct {
	lineNum  uint32
	freq     int64
	numInstr uint32
}

func (r *freqRecord) marshal() []byte {
	b := make([]byte, freqRecordSize)
	binary.LittleEndian.PutUint32(b[0:4], r.lineNum)
	binary.LittleEndian.PutUint64(b[4:12], uint64(r.freq))
	binary.LittleEndian.PutUint32(b[12:16], r.numInstr)
	return b
}

func unmarshalFreqRecord(b []byte) freqRecord {
	var r freqRecord
	r.lineNum = binary.LittleEndian.Uint32(b[0:4])
	r.freq = int64(binary.LittleEndian.Uint64(b[4:12]))
	r.numInstr = binary.LittleEndian.Uint32(b[12:16])
	return r
}

// stackEntry is one frame of an on-disk inline stack, stored
// innermost-first (the reader reverses these into outermost-first order
// to match the index's stored order).
type stackEntry struct {
	filenameOffset uint32
	lineNum        uint32
}

func (e *stackEntry) marshal() []byte {
	b := make([]byte, stackEntrySize)
	binary.LittleEndian.PutUint32(b[0:4], e.filenameOffset)
	binary.LittleEndian.PutUint32(b[4:8], e.lineNum)
	return b
}

func unmarshalStackEntry(b []byte) stackEntry {
	var e stackEntry
	e.filenameOffset = binary.LittleEndian.Uint32(b[0:4])
	e.lineNum = binary.LittleEndian.Uint32(b[4:8])
	return e
}
