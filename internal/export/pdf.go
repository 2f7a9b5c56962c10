// Package export writes the board surface to files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

const boardImage = "board"

// WritePDF writes a single-page PDF whose page matches the surface size in
// points, with the PNG surface placed at full size.
func WritePDF(w io.Writer, pngData []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("pdf page %dx%d: invalid size", width, height)
	}
	pw, ph := float64(width), float64(height)
	orientation := "P"
	if pw > ph {
		orientation = "L"
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetTitle("SketchBoard", true)
	p.SetCreator("SketchBoard", true)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(boardImage, opts, bytes.NewReader(pngData))
	p.ImageOptions(boardImage, 0, 0, pw, ph, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePNG stores already encoded PNG data at path.
func WritePNG(path string, pngData []byte) error {
	if err := os.WriteFile(path, pngData, 0o644); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// WriteFile picks the format from the file extension: .png or .pdf.
func WriteFile(path string, pngData []byte, width, height int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return WritePNG(path, pngData)
	case ".pdf":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := WritePDF(f, pngData, width, height); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}
