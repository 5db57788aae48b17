package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/autofdo-go/sampleprofile/ir"
	"github.com/autofdo-go/sampleprofile/sampleindex"
)

// zstdMagic is the four-byte frame magic klauspost/compress/zstd looks
// for; Load sniffs it to decide whether to transparently decompress the
// input before parsing.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// gzipMagic is the two-byte gzip magic.
var gzipMagic = []byte{0x1f, 0x8b}

// Load reads the sample file at path, returning a populated
// sampleindex.Index and the number of distinct samples inserted
// (duplicates and inline callsite-total entries not counted). If the file is zstd- or gzip-compressed
// (detected by magic bytes), it is transparently decompressed first.
//
// load(path) → (index, sample_count). I/O and structural errors abort
// loading the current function and return the partial index accumulated
// so far, exactly as the original's read_inline_function()/sp_reader()
// early-return behavior describes — load never discards prior progress.
func Load(path string) (*sampleindex.Index, int, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("Error opening sample profile file %s.", path)
		return sampleindex.New(), 0, err
	}
	defer f.Close()

	r, err := maybeDecompress(f)
	if err != nil {
		log.Errorf("Error decompressing sample profile file %s: %v", path, err)
		return sampleindex.New(), 0, err
	}

	idx, n := load(r)
	if n == 0 {
		log.Infof("No available data in the sample file %s. Disable sample-profile now.", path)
	} else {
		log.Infof("There are %d samples in file %s.", n, path)
	}
	return idx, n, nil
}

// maybeDecompress returns an io.ReaderAt over f's fully decompressed
// contents if f looks zstd- or gzip-framed, or f itself unchanged
// otherwise. Sample files are read once, fully, at load time, so a
// whole-file decompress is simpler and sufficient — unlike the seekable
// tools/zstpak chunked format this project uses for randomly-accessed
// artifacts, nothing here needs partial decompression.
func maybeDecompress(f *os.File) (io.ReaderAt, error) {
	var magic [4]byte
	n, err := f.ReadAt(magic[:], 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	magic4 := magic[:n]

	switch {
	case bytes.HasPrefix(magic4, zstdMagic):
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return decompressZstd(f)
	case bytes.HasPrefix(magic4, gzipMagic):
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return decompressGzip(f)
	default:
		return f, nil
	}
}

// load parses the header, string table, and every function header from
// r, inserting samples into a freshly created Index.
func load(r io.ReaderAt) (*sampleindex.Index, int) {
	idx := sampleindex.New()

	hdr, strTable, err := readHeaderAndStrings(r)
	if err != nil {
		log.Errorf("Error reading file header: %v", err)
		return idx, 0
	}

	numSamples := 0
	for i := uint32(0); i < hdr.funcHdrNum; i++ {
		fhdr, err := readFuncHeader(r, hdr, i)
		if err != nil {
			log.Errorf("Error reading the %dth function header: %v", i, err)
			return idx, numSamples
		}

		filename := strAt(strTable, fhdr.filenameOffset)
		funcName := strAt(strTable, fhdr.funcNameOffset)

		n, err := readLineRecords(r, hdr, fhdr, filename, funcName, idx)
		numSamples += n
		if err != nil {
			log.Errorf("Error reading frequency records for function %d: %v", i, err)
			return idx, numSamples
		}

		if fhdr.numInlineEntries > 0 {
			numSamples = readInlineFunction(r, hdr, strTable, i, fhdr, numSamples, idx)
		}
	}

	return idx, numSamples
}

func readHeaderAndStrings(r io.ReaderAt) (fileHeader, []byte, error) {
	var buf [fileHeaderSize]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return fileHeader{}, nil, fmt.Errorf("reading file header: %w", err)
	}
	hdr := unmarshalFileHeader(buf[:])

	strTable := make([]byte, hdr.strTableSize)
	if hdr.strTableSize > 0 {
		if _, err := r.ReadAt(strTable, int64(hdr.strTableOffset)); err != nil {
			return fileHeader{}, nil, fmt.Errorf("reading string table: %w", err)
		}
	}
	return hdr, strTable, nil
}

func readFuncHeader(r io.ReaderAt, hdr fileHeader, i uint32) (funcHeader, error) {
	buf := make([]byte, hdr.funcHdrEntSize)
	offset := int64(hdr.funcHdrOffset) + int64(i)*int64(hdr.funcHdrEntSize)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return funcHeader{}, err
	}
	return unmarshalFuncHeader(buf), nil
}

func readLineRecords(r io.ReaderAt, hdr fileHeader, fhdr funcHeader, filename, funcName string,
	idx *sampleindex.Index) (int, error) {
	offset := int64(hdr.profileOffset) + int64(fhdr.funcProfileOffset) + int64(fhdr.funcFreqOffset)
	n := 0
	for j := uint64(0); j < fhdr.numFreqEntries; j++ {
		var recBuf [freqRecordSize]byte
		if _, err := r.ReadAt(recBuf[:], offset); err != nil {
			return n, fmt.Errorf("reading frequency record %d: %w", j, err)
		}
		offset += freqRecordSize

		rec := unmarshalFreqRecord(recBuf[:])
		if idx.InsertFlat(&sampleindex.FlatEntry{
			File: filename, Func: funcName,
			Line: int32(rec.lineNum), Freq: rec.freq, NumInstr: rec.numInstr,
		}) {
			n++
		}
	}
	return n, nil
}

// readInlineFunction reads every inline-callsite header belonging to
// function index i and inserts its samples, following the "inline
// reader" algorithm. Returns the running sample count.
func readInlineFunction(r io.ReaderAt, hdr fileHeader, strTable []byte, funcIdx uint32,
	fhdr funcHeader, numSamples int, idx *sampleindex.Index) int {
	curr := numSamples

	for k := uint64(0); k < fhdr.numInlineEntries; k++ {
		inlineHdrOffset := int64(hdr.funcHdrOffset) + int64(fhdr.funcInlineHdrOffset) +
			int64(hdr.funcHdrNum)*int64(hdr.funcHdrEntSize) + int64(k)*int64(hdr.funcHdrEntSize)

		buf := make([]byte, hdr.funcHdrEntSize)
		if _, err := r.ReadAt(buf, inlineHdrOffset); err != nil {
			log.Errorf("read_inline_function(): fseek/fread inline_func_hdr error: %v", err)
			return curr
		}
		inlineHdr := unmarshalFuncHeader(buf)

		if inlineHdr.numFreqEntries == 0 {
			continue
		}

		depth := int(inlineHdr.inlineDepth)
		if depth <= 0 || depth > maxStack {
			panic(fmt.Sprintf("sampleprofile: inline depth %d out of bounds (0, %d]",
				depth, maxStack))
		}

		stack, err := readInlineStack(r, hdr, strTable, inlineHdr, depth)
		if err != nil {
			log.Errorf("read_inline_function(): fseek/fread profile_data error: %v", err)
			return curr
		}

		filename := strAt(strTable, inlineHdr.filenameOffset)
		funcName := strAt(strTable, inlineHdr.funcNameOffset)

		lineOffset := int64(hdr.profileOffset) + int64(inlineHdr.funcProfileOffset)
		for j := uint64(0); j < inlineHdr.numFreqEntries; j++ {
			var recBuf [freqRecordSize]byte
			if _, err := r.ReadAt(recBuf[:], lineOffset); err != nil {
				log.Errorf("read_inline_function(): fread profile_data error: %v", err)
				return curr
			}
			lineOffset += freqRecordSize

			rec := unmarshalFreqRecord(recBuf[:])
			if idx.InsertInline(&sampleindex.InlineEntry{
				Stack: stack, File: filename, Func: funcName,
				Line: int32(rec.lineNum), Freq: rec.freq, NumInstr: rec.numInstr,
			}) {
				curr++
			}
		}

		// The callsite-total entry: line == 0, freq == total samples
		// attributed to the whole inlined invocation.
		idx.InsertInline(&sampleindex.InlineEntry{
			Stack: stack, File: filename, Func: funcName,
			Line: 0, Freq: inlineHdr.totalSamples,
		})
	}

	return curr
}

// readInlineStack reads depth on-disk stack entries (innermost-first)
// and reverses them into outermost-first order, matching the index's
// stored order.
func readInlineStack(r io.ReaderAt, hdr fileHeader, strTable []byte, inlineHdr funcHeader,
	depth int) ([]ir.SourceLocation, error) {
	buf := make([]byte, depth*stackEntrySize)
	offset := int64(hdr.profileOffset) + int64(inlineHdr.inlineStackOffset)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, err
	}

	stack := make([]ir.SourceLocation, depth)
	for i := 0; i < depth; i++ {
		e := unmarshalStackEntry(buf[i*stackEntrySize : (i+1)*stackEntrySize])
		stack[depth-i-1] = ir.SourceLocation{
			File: strAt(strTable, e.filenameOffset),
			Line: int(e.lineNum),
		}
	}
	return stack, nil
}

// strAt returns the NUL-terminated string starting at offset in table.
func strAt(table []byte, offset uint32) string {
	if int(offset) >= len(table) {
		return ""
	}
	end := int(offset)
	for end < len(table) && table[end] != 0 {
		end++
	}
	return string(table[offset:end])
}
