package imageops

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Target widths and encoding quality for the two picture variants.
const (
	LightboxWidth  = 1200
	ThumbnailWidth = 400
	CoverWidth     = 600
	JPEGQuality    = 80
)

// Codec produces resized, re-encoded JPEG variants from a source file.
type Codec interface {
	// ResizeDownAndEncode decodes sourcePath, scales it down so its width is
	// at most maxWidth (never upsizing), and returns the JPEG-encoded result.
	ResizeDownAndEncode(sourcePath string, maxWidth, quality int) ([]byte, error)
}

// CodecError wraps a decode or encode failure for a given source file.
type CodecError struct {
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec: %s: %v", e.Path, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

type imagingCodec struct{}

// NewCodec returns the imaging-backed codec.
func NewCodec() Codec {
	return imagingCodec{}
}

func (imagingCodec) ResizeDownAndEncode(sourcePath string, maxWidth, quality int) ([]byte, error) {
	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &CodecError{Path: sourcePath, Err: err}
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, &CodecError{Path: sourcePath, Err: err}
	}
	return buf.Bytes(), nil
}
