package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.SetNRGBA(x, h/2, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, samplePNG(t, 64, 32), 64, 32); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
}

func TestWritePDFRejectsBadInput(t *testing.T) {
	if err := WritePDF(&bytes.Buffer{}, samplePNG(t, 4, 4), 0, 4); err == nil {
		t.Error("zero width accepted")
	}
	if err := WritePDF(&bytes.Buffer{}, []byte("not a png"), 4, 4); err == nil {
		t.Error("invalid image accepted")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	data := samplePNG(t, 10, 10)

	tests := []struct {
		name   string
		file   string
		prefix string
		err    error
	}{
		{name: "png", file: "board.png", prefix: "\x89PNG"},
		{name: "pdf upper case", file: "board.PDF", prefix: "%PDF-"},
		{name: "unknown", file: "board.svg", err: ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			err := WriteFile(path, data, 10, 10)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("WriteFile error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(got, []byte(tt.prefix)) {
				t.Errorf("%s starts with %q", tt.file, got[:5])
			}
		})
	}
}
