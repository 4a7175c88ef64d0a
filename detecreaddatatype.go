package array2vcf

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x78, 0x9c},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}
	return "invalid"
}

// DetectDataType checks the leading bytes of a stream against a set of known
// compression signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
//
// The reader is only peeked, so the detected stream still starts at its first
// byte. Streams shorter than the longest signature are matched on what is
// there.
func DetectDataType(r *bufio.Reader) (DataType, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	for dt, sig := range byteCodeSigs {
		if len(buff) >= len(sig) && bytes.Equal(buff[:len(sig)], sig) {
			return dt, nil
		}
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompress wraps r in a decompressor when its first bytes match a known
// compression format. Uncompressed data is passed through untouched. Closing
// the returned ReadCloser does not close r.
func MaybeDecompress(r io.Reader) (io.ReadCloser, DataType, error) {
	buf := bufio.NewReader(r)

	dt, err := DetectDataType(buf)
	if err != nil {
		return nil, dt, err
	}

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, dt, err
		}
		return gz, dt, nil
	case DataTypeZip:
		// Array exports come zipped one file per archive; only the first entry
		// is read.
		zr := zipstream.NewReader(buf)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		return &readCloserFaker{zr}, dt, nil
	case DataTypeBZip2:
		return &readCloserFaker{bzip2.NewReader(buf)}, dt, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(buf, 0)
		if err != nil {
			return nil, dt, err
		}
		return &readCloserFaker{reader}, dt, nil
	case DataTypeZ:
		zr, err := zlib.NewReader(buf)
		if err != nil {
			return nil, dt, err
		}
		return zr, dt, nil
	}

	return &readCloserFaker{buf}, dt, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}
