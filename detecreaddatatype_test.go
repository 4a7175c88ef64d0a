package array2vcf

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "Name\tChr\tPosition\nrs1\t1\t100\n"

func TestDetectDataType(t *testing.T) {
	cases := map[string]DataType{
		"\x1f\x8b\x08\x00": DataTypeGzip,
		"PK\x03\x04rest":   DataTypeZip,
		"\xfd7zXZ\x00":     DataTypeXZ,
		"BZh91AY":          DataTypeBZip2,
		"\x78\x9c":         DataTypeZ,
		sample:             DataTypeNoCompression,
		"ab":               DataTypeNoCompression,
		"":                 DataTypeNoCompression,
	}

	for in, want := range cases {
		got, err := DetectDataType(bufio.NewReader(strings.NewReader(in)))
		require.NoError(t, err)
		assert.Equal(t, want, got, "%q", in)
	}
}

func TestMaybeDecompress(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write([]byte(sample))
	require.NoError(t, gw.Close())

	var zl bytes.Buffer
	zw := zlib.NewWriter(&zl)
	zw.Write([]byte(sample))
	require.NoError(t, zw.Close())

	cases := map[DataType][]byte{
		DataTypeNoCompression: []byte(sample),
		DataTypeGzip:          gz.Bytes(),
		DataTypeZ:             zl.Bytes(),
	}

	for want, in := range cases {
		rc, dt, err := MaybeDecompress(bytes.NewReader(in))
		require.NoError(t, err, want.String())
		assert.Equal(t, want, dt)

		out, err := ioutil.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, sample, string(out), want.String())
		assert.NoError(t, rc.Close())
	}
}

func TestMaybeDecompressCorrupt(t *testing.T) {
	_, dt, err := MaybeDecompress(strings.NewReader("\x1f\x8b\x08"))
	assert.Equal(t, DataTypeGzip, dt)
	assert.Error(t, err)
}
