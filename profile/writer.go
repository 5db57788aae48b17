package profile

import (
	"io"

	"github.com/autofdo-go/sampleprofile/ir"
)

// Writer builds an in-memory sample file and serializes it in the
// on-disk format Load understands. It exists primarily so tests (and
// tooling that converts some other profile format into this one) can
// round-trip a sample file without needing a real sampled binary,
// following the project's own builder/table split in
// pyroscope/symb/table (stringBuilder/rangesBuilder feeding Table).
type Writer struct {
	strings *stringBuilder
	funcs   []*funcBuilder
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{strings: newStringBuilder()}
}

// funcBuilder accumulates one top-level function's line records and
// inline callsites.
type funcBuilder struct {
	file, name string
	lines      []freqRecord
	inlines    []*inlineBuilder
}

// inlineBuilder accumulates one inline callsite's stack and line
// records.
type inlineBuilder struct {
	stack         []ir.SourceLocation
	file, name    string
	lines         []freqRecord
	totalSamples  int64
	totalExplicit bool
}

// AddFunction starts a new top-level function entry.
func (w *Writer) AddFunction(file, name string) *funcBuilder {
	fb := &funcBuilder{file: file, name: name}
	w.funcs = append(w.funcs, fb)
	return fb
}

// AddLine records one per-line frequency for this function.
func (fb *funcBuilder) AddLine(line int, freq int64, numInstr int) *funcBuilder {
	fb.lines = append(fb.lines, freqRecord{
		lineNum: uint32(line), freq: freq, numInstr: uint32(numInstr),
	})
	return fb
}

// AddInlineCallsite starts a new inline-callsite entry belonging to this
// function. stack must be outermost-first (the same order
// inlinestack.Extract produces and sampleindex stores).
func (fb *funcBuilder) AddInlineCallsite(stack []ir.SourceLocation, file,
	name string) *inlineBuilder {
	ib := &inlineBuilder{stack: stack, file: file, name: name}
	fb.inlines = append(fb.inlines, ib)
	return ib
}

// AddLine records one per-line frequency within this inlined body.
func (ib *inlineBuilder) AddLine(line int, freq int64, numInstr int) *inlineBuilder {
	ib.lines = append(ib.lines, freqRecord{
		lineNum: uint32(line), freq: freq, numInstr: uint32(numInstr),
	})
	return ib
}

// WithTotal overrides the callsite-total freq; by default it is the sum
// of every AddLine freq for this callsite.
func (ib *inlineBuilder) WithTotal(total int64) *inlineBuilder {
	ib.totalSamples = total
	ib.totalExplicit = true
	return ib
}

func (ib *inlineBuilder) total() int64 {
	if ib.totalExplicit {
		return ib.totalSamples
	}
	var sum int64
	for _, l := range ib.lines {
		sum += l.freq
	}
	return sum
}

// WriteTo serializes the accumulated profile in the on-disk format.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	var profileData []byte
	var totalInlineEntries int
	for _, fb := range w.funcs {
		totalInlineEntries += len(fb.inlines)
	}

	funcHdrs := make([]funcHeader, 0, len(w.funcs))
	inlineHdrs := make([]funcHeader, 0, totalInlineEntries)

	for _, fb := range w.funcs {
		fh := funcHeader{
			filenameOffset: uint32(w.strings.add(fb.file)),
			funcNameOffset: uint32(w.strings.add(fb.name)),
		}

		fh.funcProfileOffset = uint64(len(profileData))
		fh.funcFreqOffset = 0
		fh.numFreqEntries = uint64(len(fb.lines))
		for _, rec := range fb.lines {
			profileData = append(profileData, rec.marshal()...)
		}

		fh.funcInlineHdrOffset = uint64(len(inlineHdrs)) * funcHeaderSize
		fh.numInlineEntries = uint64(len(fb.inlines))

		for _, ib := range fb.inlines {
			ih := funcHeader{
				filenameOffset: uint32(w.strings.add(ib.file)),
				funcNameOffset: uint32(w.strings.add(ib.name)),
				inlineDepth:    uint32(len(ib.stack)),
				totalSamples:   ib.total(),
				numFreqEntries: uint64(len(ib.lines)),
			}

			ih.inlineStackOffset = uint64(len(profileData))
			// On-disk order is innermost-first; ib.stack is stored
			// outermost-first, so write it reversed.
			for i := len(ib.stack) - 1; i >= 0; i-- {
				frame := ib.stack[i]
				entry := stackEntry{
					filenameOffset: uint32(w.strings.add(frame.File)),
					lineNum:        uint32(frame.Line),
				}
				profileData = append(profileData, entry.marshal()...)
			}

			ih.funcProfileOffset = uint64(len(profileData))
			for _, rec := range ib.lines {
				profileData = append(profileData, rec.marshal()...)
			}

			inlineHdrs = append(inlineHdrs, ih)
		}

		funcHdrs = append(funcHdrs, fh)
	}

	strTable := w.strings.bytes()

	hdr := fileHeader{
		strTableOffset: fileHeaderSize,
		strTableSize:   uint64(len(strTable)),
		funcHdrOffset:  fileHeaderSize + uint64(len(strTable)),
		funcHdrEntSize: funcHeaderSize,
		funcHdrNum:     uint32(len(funcHdrs)),
	}
	hdr.profileOffset = hdr.funcHdrOffset +
		uint64(len(funcHdrs)+len(inlineHdrs))*funcHeaderSize

	var buf []byte
	buf = append(buf, hdr.marshal()...)
	buf = append(buf, strTable...)
	for _, fh := range funcHdrs {
		buf = append(buf, fh.marshal()...)
	}
	for _, ih := range inlineHdrs {
		buf = append(buf, ih.marshal()...)
	}
	buf = append(buf, profileData...)

	n, err := out.Write(buf)
	return int64(n), err
}

// stringBuilder interns strings into a NUL-terminated flat buffer,
// mirroring pyroscope/symb/table's stringBuilder.
type stringBuilder struct {
	buf    []byte
	offset map[string]uint32
}

func newStringBuilder() *stringBuilder {
	return &stringBuilder{offset: make(map[string]uint32)}
}

func (sb *stringBuilder) add(s string) uint32 {
	if off, ok := sb.offset[s]; ok {
		return off
	}
	off := uint32(len(sb.buf))
	sb.offset[s] = off
	sb.buf = append(sb.buf, s...)
	sb.buf = append(sb.buf, 0)
	return off
}

func (sb *stringBuilder) bytes() []byte {
	return sb.buf
}
