package knot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exported describes a file produced by Export.
type Exported struct {
	Path        string
	Filename    string
	ContentType string
	Bytes       int
}

// Export writes the knot's code to dir/<slug>.js.
//
// The payload is staged in a temp file next to the target and renamed into
// place; the temp file is removed on every path.
func Export(dir string, k Knot) (Exported, error) {
	name := Filename(k.Name)
	if name == Extension || filepath.Base(name) != name {
		return Exported{}, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Exported{}, fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".knot-export-*")
	if err != nil {
		return Exported{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := tmp.WriteString(k.Code)
	if err != nil {
		_ = tmp.Close()
		return Exported{}, fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Exported{}, fmt.Errorf("close export: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return Exported{}, fmt.Errorf("chmod export: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		return Exported{}, fmt.Errorf("move export: %w", err)
	}

	return Exported{
		Path:        path,
		Filename:    name,
		ContentType: ContentType,
		Bytes:       n,
	}, nil
}
