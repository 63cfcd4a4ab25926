package snapshot

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skfactor/blobstore"
	"github.com/hupe1980/skfactor/codec"
	"github.com/hupe1980/skfactor/resource"
)

func testResult(bins int, mode string, minValidK float64) *Result {
	r := &Result{
		Mode:       mode,
		Bins:       bins,
		KMin:       0,
		KMax:       float64(bins),
		Frames:     3,
		MinValidK:  minValidK,
		BinCenters: make([]float64, bins),
		Values:     make([]float64, bins),
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	for i := range bins {
		k := float64(i) + 0.5
		r.BinCenters[i] = k
		r.Values[i] = 1 + math.Sin(k)/k
	}
	return r
}

func TestEncodeDecode(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				want := testResult(500, "rdf", 0.6283)

				data, err := Encode(want, WithCodec(c), WithCompression(comp))
				require.NoError(t, err)
				assert.Equal(t, "SKF1", string(data[:4]))
				assert.Equal(t, byte(comp), data[5])

				got, err := Decode(data)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			})
		}
	}
}

func TestEncode_InfiniteMinValidK(t *testing.T) {
	want := testResult(4, "direct", math.Inf(1))

	data, err := Encode(want, WithCodec(codec.JSON{}), WithCompression(CompressionNone))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"min_valid_k":null`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.MinValidK, 1))
}

func TestEncode_CompressionShrinks(t *testing.T) {
	r := testResult(2000, "direct", math.Inf(1))
	for i := range r.Values {
		r.Values[i] = 1
	}

	plain, err := Encode(r, WithCompression(CompressionNone))
	require.NoError(t, err)
	packed, err := Encode(r, WithCompression(CompressionZstd))
	require.NoError(t, err)
	assert.Less(t, len(packed), len(plain))
}

func TestEncode_Invalid(t *testing.T) {
	r := testResult(4, "direct", math.Inf(1))
	r.Values = r.Values[:3]

	_, err := Encode(r)
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestDecode_Corrupt(t *testing.T) {
	data, err := Encode(testResult(8, "rdf", 1))
	require.NoError(t, err)

	t.Run("short", func(t *testing.T) {
		_, err := Decode(data[:5])
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] = 'X'
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("checksum", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)/2] ^= 0xFF
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	want := testResult(64, "rdf", 1.2)

	require.NoError(t, Save(ctx, store, "runs/a.skf", want))

	got, err := Load(ctx, store, "runs/a.skf")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Load(ctx, store, "missing.skf")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSave_RateLimited(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	want := testResult(32, "direct", math.Inf(1))

	require.NoError(t, Save(ctx, store, "a.skf", want, WithResourceController(rc)))

	got, err := Load(ctx, store, "a.skf")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSave_CanceledLeavesNoBlob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := blobstore.NewLocalStore(t.TempDir())
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1})

	err := Save(ctx, store, "a.skf", testResult(32, "direct", math.Inf(1)), WithResourceController(rc))
	require.Error(t, err)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestResult_WriteCSV(t *testing.T) {
	r := testResult(3, "rdf", 1.0)

	var buf strings.Builder
	require.NoError(t, r.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "k,S(k),valid", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.5,"))
	assert.True(t, strings.HasSuffix(lines[1], ",false"))
	assert.True(t, strings.HasSuffix(lines[2], ",true"))
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}
