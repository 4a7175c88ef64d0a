package array2vcf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

// DefaultEncoding is the text encoding assumed for array exports unless told
// otherwise.
const DefaultEncoding = "UTF-8"

// Input is an opened array export: decompressed, decoded to UTF-8, and closable
// as a single unit.
type Input struct {
	io.Reader
	DataType DataType

	closers []io.Closer
}

// Close closes the decompressor and then the underlying file or object.
func (in *Input) Close() error {
	var firstErr error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// OpenInput opens a local or gs:// path, transparently decompresses it, and
// decodes it from the named text encoding (any label understood by the WHATWG
// encoding standard, e.g. "windows-1252" or "latin1"). An empty encoding means
// UTF-8.
func OpenInput(ctx context.Context, path, encoding string, client *storage.Client) (*Input, error) {
	raw, err := MaybeOpenFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, err
	}

	in, err := WrapInput(raw, encoding)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	log.Debugf("Opened %s (%s, encoding %s)\n", path, in.DataType, encodingOrDefault(encoding))

	return in, nil
}

// WrapInput applies decompression and decoding to an already opened stream.
// Closing the returned Input closes raw.
func WrapInput(raw io.ReadCloser, encoding string) (*Input, error) {
	decompressed, dt, err := MaybeDecompress(raw)
	if err != nil {
		return nil, err
	}

	in := &Input{
		Reader:   decompressed,
		DataType: dt,
		closers:  []io.Closer{raw, decompressed},
	}

	if isUTF8(encoding) {
		return in, nil
	}

	decoded, err := charset.NewReaderLabel(encoding, decompressed)
	if err != nil {
		decompressed.Close()
		return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}
	in.Reader = decoded

	return in, nil
}

func isUTF8(encoding string) bool {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "", "utf8":
		return true
	}

	return false
}

func encodingOrDefault(encoding string) string {
	if encoding == "" {
		return DefaultEncoding
	}

	return encoding
}
