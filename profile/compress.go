package profile

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
)

// decompressZstd fully decompresses r (a zstd-framed stream) into
// memory and returns a ReaderAt over the result.
func decompressZstd(r io.Reader) (io.ReaderAt, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// decompressGzip fully decompresses r (a gzip-framed stream) into
// memory and returns a ReaderAt over the result.
func decompressGzip(r io.Reader) (io.ReaderAt, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
