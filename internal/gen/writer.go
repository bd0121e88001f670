package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory and returns
// the paths that changed. It creates the directory if it doesn't exist.
// Files whose content is already on disk are left untouched, and a stale
// .unformatted.go sidecar next to a written file is removed.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		existing, err := os.ReadFile(outputPath)
		if err == nil && bytes.Equal(existing, file.Content) {
			continue
		}

		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("reading file %s: %w", file.Filename, err)
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		written = append(written, outputPath)

		sidecar := filepath.Join(outputDir, debugName(file.Filename))
		if err := os.Remove(sidecar); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("removing %s: %w", sidecar, err)
		}
	}

	return written, nil
}

// writeSidecar saves code that failed to format next to its intended output,
// for inspection. WriteFiles removes it once the file generates cleanly.
func writeSidecar(outputDir, filename string, content []byte) error {
	if outputDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(outputDir, debugName(filename)), content, filePerm)
}

// debugName keeps the sidecar a .go file so editors can syntax highlight it,
// without colliding with real output.
func debugName(filename string) string {
	return strings.TrimSuffix(filename, ".go") + ".unformatted.go"
}
