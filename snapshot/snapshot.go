package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/skfactor/blobstore"
	"github.com/hupe1980/skfactor/codec"
	"github.com/hupe1980/skfactor/internal/conv"
	"github.com/hupe1980/skfactor/internal/hash"
	"github.com/hupe1980/skfactor/resource"
)

const (
	magic   = "SKF1"
	version = 1

	fixedHeaderSize = len(magic) + 3
)

// ErrUnsupportedVersion is returned for snapshots written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Option configures encoding and storing.
type Option func(*options)

type options struct {
	codec       codec.Codec
	compression Compression
	resources   *resource.Controller
}

// WithCodec sets the payload codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithCompression sets the payload compression. Defaults to CompressionZstd.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithResourceController throttles Save through the controller's IO limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.resources = rc }
}

func applyOptions(opts []Option) options {
	o := options{codec: codec.Default, compression: CompressionZstd}
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	return o
}

// Encode serializes r.
func Encode(r *Result, opts ...Option) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	payload, err := o.codec.Marshal(toWire(r))
	if err != nil {
		return nil, fmt.Errorf("marshal with %s: %w", o.codec.Name(), err)
	}

	name := o.codec.Name()
	nameLen, err := conv.IntToUint8(len(name))
	if err != nil {
		return nil, fmt.Errorf("codec name %q: %w", name, err)
	}

	buf := make([]byte, 0, fixedHeaderSize+len(name)+blockHeaderSize+len(payload)+hash.TrailerSize)
	buf = append(buf, magic...)
	buf = append(buf, version, byte(o.compression), nameLen)
	buf = append(buf, name...)
	buf, err = appendBlock(buf, payload, o.compression)
	if err != nil {
		return nil, err
	}
	return hash.AppendTrailer(buf), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*Result, error) {
	if len(data) < fixedHeaderSize+blockHeaderSize+hash.TrailerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[:len(magic)])
	}

	body, ok := hash.SplitTrailer(data)
	if !ok {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	if v := body[len(magic)]; v != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	compression := Compression(body[len(magic)+1])
	nameLen := int(body[len(magic)+2])

	rest := body[fixedHeaderSize:]
	if len(rest) < nameLen+blockHeaderSize {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	name := string(rest[:nameLen])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCorrupt, name)
	}

	payload, err := readBlock(rest[nameLen:], compression)
	if err != nil {
		return nil, err
	}

	var w wireResult
	if err := c.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	r := fromWire(w)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return r, nil
}

// Save encodes r and writes it to store under name.
//
// With a resource controller the upload streams through its IO limiter.
func Save(ctx context.Context, store blobstore.BlobStore, name string, r *Result, opts ...Option) error {
	data, err := Encode(r, opts...)
	if err != nil {
		return err
	}

	o := applyOptions(opts)
	if o.resources == nil {
		return store.Put(ctx, name, data)
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(resource.NewRateLimitedWriter(ctx, w, o.resources), bytes.NewReader(data)); err != nil {
		blobstore.Abort(w)
		return err
	}
	return w.Close()
}

// Load reads and decodes the snapshot stored under name.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Result, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
