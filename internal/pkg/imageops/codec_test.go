package imageops

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 40, B: 200, A: 255})
	p := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, p))
	return p
}

func TestResizeDownAndEncode_ScalesDown(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "wide.png", 2400, 1200)

	data, err := NewCodec().ResizeDownAndEncode(src, LightboxWidth, JPEGQuality)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1200, decoded.Bounds().Dx())
	// aspect ratio preserved
	assert.Equal(t, 600, decoded.Bounds().Dy())
}

func TestResizeDownAndEncode_NeverUpsizes(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "small.jpg", 300, 200)

	data, err := NewCodec().ResizeDownAndEncode(src, ThumbnailWidth, JPEGQuality)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
	assert.Equal(t, 200, decoded.Bounds().Dy())
}

func TestResizeDownAndEncode_CorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0644))

	_, err := NewCodec().ResizeDownAndEncode(src, LightboxWidth, JPEGQuality)
	require.Error(t, err)

	var codecErr *CodecError
	assert.True(t, errors.As(err, &codecErr))
	assert.Equal(t, src, codecErr.Path)
}

func TestResizeDownAndEncode_MissingSource(t *testing.T) {
	_, err := NewCodec().ResizeDownAndEncode(filepath.Join(t.TempDir(), "nope.jpg"), LightboxWidth, JPEGQuality)

	var codecErr *CodecError
	assert.True(t, errors.As(err, &codecErr))
}
