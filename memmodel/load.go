package memmodel

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension (.json, .yaml, .yml).
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("memmodel: unsupported snapshot extension %q", filepath.Ext(path))
}

// Decode reads a snapshot. Unknown YAML keys are rejected.
func Decode(r io.Reader, f Format) (Snapshot, error) {
	var s Snapshot
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return Snapshot{}, fmt.Errorf("memmodel: invalid JSON snapshot: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				return Snapshot{}, errors.New("memmodel: empty YAML snapshot")
			}
			return Snapshot{}, fmt.Errorf("memmodel: invalid YAML snapshot: %w", err)
		}
	default:
		return Snapshot{}, fmt.Errorf("memmodel: unknown format %q", f)
	}
	return s, nil
}

// Load decodes and indexes a snapshot.
func Load(r io.Reader, f Format) (*Model, error) {
	s, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	return New(s)
}

// LoadFile loads a snapshot file, choosing the format by extension. When the
// snapshot has no id the file's base name is used.
func LoadFile(path string) (*Model, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	s, err := Decode(fh, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	m, err := New(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
