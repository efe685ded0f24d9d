// Package imaging renders small JPEG previews of uploaded image documents.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// PreviewSize is the maximum width or height of a preview.
const PreviewSize = 512

// previewQuality is the JPEG quality of previews.
const previewQuality = 80

// ErrUnsupported is returned when the document is not a previewable image.
var ErrUnsupported = errors.New("unsupported image format")

var previewable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Previewable reports whether a sniffed content type can be previewed.
func Previewable(contentType string) bool {
	return previewable[contentType]
}

// Preview reads an image, checks its format by sniffing the bytes,
// shrinks it to fit PreviewSize and encodes it as JPEG.
func Preview(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	if detected := http.DetectContentType(data); !previewable[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fit(img, PreviewSize), &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img down with Catmull-Rom so neither side exceeds maxDim,
// keeping the aspect ratio. Smaller images are returned unchanged.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
