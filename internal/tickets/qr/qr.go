package qr

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/skip2/go-qrcode"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// Renderer writes ticket hashkeys as PNG QR images into a flat
// directory served under /qr.
type Renderer struct {
	Dir string
}

func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create QR directory %s: %w", dir, err)
	}
	return &Renderer{Dir: dir}, nil
}

// Filename maps a hashkey to its image name. Unsafe characters (the
// plus sign in phone numbers in particular) become underscores so the
// name is path and URL safe.
func Filename(hashkey string) string {
	return "QR_" + unsafeChars.ReplaceAllString(hashkey, "_") + ".png"
}

// Render returns the PNG bytes for a hashkey payload.
func (r *Renderer) Render(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.High, 400)
}

// WriteFile renders the hashkey and writes it to disk, overwriting any
// previous image for the same hashkey.
func (r *Renderer) WriteFile(hashkey string) (string, error) {
	if hashkey == "" {
		return "", fmt.Errorf("empty hashkey")
	}
	png, err := r.Render(hashkey)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR: %w", err)
	}
	filename := Filename(hashkey)
	if err := os.WriteFile(filepath.Join(r.Dir, filename), png, 0644); err != nil {
		return "", fmt.Errorf("failed to write QR file: %w", err)
	}
	return filename, nil
}

// Path resolves a filename returned by WriteFile back to its path.
func (r *Renderer) Path(filename string) string {
	return filepath.Join(r.Dir, filename)
}
