package savegame

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/utakatalp/league-simulator/internal/league"
)

var (
	ErrNotFound = errors.New("save not found")
	ErrSchema   = errors.New("save does not match schema")
	ErrRead     = errors.New("save unreadable")
)

// LoadError is returned by every failed load. Kind is one of ErrNotFound,
// ErrSchema or ErrRead; errors.Is matches both Kind and the cause.
type LoadError struct {
	Path string
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("load %s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks the format from the file extension; JSON by default.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Marshal encodes a career.
func Marshal(c *league.Career, f Format) ([]byte, error) {
	doc := FromCareer(c)
	if f == YAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes and validates a career.
func Unmarshal(data []byte, f Format) (*league.Career, error) {
	c, err := decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return c, nil
}

func decode(data []byte, f Format) (*league.Career, error) {
	var doc Document
	var err error
	if f == YAML {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc.Career()
}

// Save writes the whole career to path. The file is replaced atomically,
// so a crash never leaves a half-written save behind.
func Save(path string, c *league.Career) error {
	data, err := Marshal(c, FormatFor(path))
	if err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing save: %w", err)
	}
	return nil
}

// Load reads a career from path. It either returns a fully operable career
// or a *LoadError.
func Load(path string) (*league.Career, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Kind: ErrNotFound, Err: err}
		}
		return nil, &LoadError{Path: path, Kind: ErrRead, Err: err}
	}

	c, err := decode(data, FormatFor(path))
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrSchema, Err: err}
	}
	return c, nil
}

// FileStore keeps a single career in one file.
type FileStore struct {
	Path string
}

func (s FileStore) Save(c *league.Career) error {
	return Save(s.Path, c)
}

func (s FileStore) Load() (*league.Career, error) {
	return Load(s.Path)
}
