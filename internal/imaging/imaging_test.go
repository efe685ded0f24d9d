package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding preview: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg preview, got %s", format)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestPreviewPNG(t *testing.T) {
	out, err := Preview(bytes.NewReader(createTestPNG(100, 60)))
	if err != nil {
		t.Fatalf("Preview PNG: %v", err)
	}
	if w, h := decodeSize(t, out); w != 100 || h != 60 {
		t.Errorf("small image should not be resized: got %dx%d", w, h)
	}
}

func TestPreviewDownscaleKeepsAspect(t *testing.T) {
	out, err := Preview(bytes.NewReader(createTestJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("Preview large image: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != PreviewSize || h != PreviewSize/2 {
		t.Errorf("expected %dx%d, got %dx%d", PreviewSize, PreviewSize/2, w, h)
	}
}

func TestPreviewTallImage(t *testing.T) {
	out, err := Preview(bytes.NewReader(createTestPNG(300, 1200)))
	if err != nil {
		t.Fatalf("Preview tall image: %v", err)
	}
	if w, h := decodeSize(t, out); w != 128 || h != PreviewSize {
		t.Errorf("expected 128x%d, got %dx%d", PreviewSize, w, h)
	}
}

func TestPreviewUnsupported(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
		"pdf":  []byte("%PDF-1.7\n"),
	} {
		if _, err := Preview(bytes.NewReader(data)); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", name, err)
		}
	}
}

func TestPreviewable(t *testing.T) {
	if !Previewable("image/png") || !Previewable("image/jpeg") {
		t.Error("expected PNG and JPEG to be previewable")
	}
	if Previewable("application/pdf") {
		t.Error("PDF should not be previewable")
	}
}
