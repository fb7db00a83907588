package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Formats lists the image extensions Save understands.
var Formats = []string{".png", ".webp", ".tga"}

// Encode writes img to w in the format named by ext (".png", ".webp" or
// ".tga").
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	case ".tga":
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}

// Save writes img to path, choosing the encoder by extension. Parent
// directories are created as needed.
func Save(path string, img image.Image) error {
	ext := filepath.Ext(path)
	if err := checkFormat(ext); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return fmt.Errorf("save %s: encode: %w", path, err)
	}
	return f.Close()
}

func checkFormat(ext string) error {
	if !slices.Contains(Formats, strings.ToLower(ext)) {
		return fmt.Errorf("unsupported image format %q", ext)
	}
	return nil
}
