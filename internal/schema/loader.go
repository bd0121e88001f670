package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a schema file from the given path. Files ending
// in .json are parsed as JSON, everything else by content.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	var f *File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err = ParseJSON(data)
	} else {
		f, err = Parse(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.source = path

	return f, nil
}

// Parse parses schema data, detecting JSON by a leading '{'.
func Parse(data []byte) (*File, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(data)
	}

	return ParseYAML(data)
}

// ParseYAML parses YAML data into a File.
func ParseYAML(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// ParseJSON parses JSON data into a File.
func ParseJSON(data []byte) (*File, error) {
	var f File

	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Source returns the path the file was loaded from, if any.
func (f *File) Source() string {
	return f.source
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path as YAML.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}
