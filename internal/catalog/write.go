package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"muxext/internal/fileutil"
)

const jsonIndent = "    "

// Files names the three output files inside the output directory.
type Files struct {
	Video      string
	Audio      string
	Unresolved string
}

// DefaultFiles returns the canonical output file names.
func DefaultFiles() Files {
	return Files{
		Video:      "video.ext.json",
		Audio:      "audio.ext.json",
		Unresolved: "notfound.json",
	}
}

// Paths returns the absolute destinations of files within dir.
func (f Files) Paths(dir string) []string {
	return []string{
		filepath.Join(dir, f.Video),
		filepath.Join(dir, f.Audio),
		filepath.Join(dir, f.Unresolved),
	}
}

// Write serializes the catalog into dir, overwriting existing files. Each file
// is replaced atomically.
func Write(dir string, files Files, c *Catalog) error {
	outputs := []struct {
		name  string
		value any
	}{
		{files.Video, c.Video()},
		{files.Audio, c.Audio()},
		{files.Unresolved, c.Unresolved()},
	}
	for _, out := range outputs {
		data, err := Marshal(out.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", out.name, err)
		}
		if err := fileutil.WriteFileAtomic(filepath.Join(dir, out.name), data); err != nil {
			return fmt.Errorf("write %s: %w", out.name, err)
		}
	}
	return nil
}

// Marshal encodes v with 4-space indentation and without HTML escaping;
// descriptor text routinely contains "<int>" style placeholders.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
