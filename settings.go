package genart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned for program settings outside their range.
var ErrInvalidSettings = errors.New("genart: invalid settings")

// Settings is a Config plus the options of a sampling run. It is the
// content of a settings file.
type Settings struct {
	Config `yaml:",inline"`

	// Samples is the number of accepted images to produce.
	Samples int `yaml:"num-samples"`

	// Out is the output directory. It is created if missing.
	Out string `yaml:"out"`

	Format  Format `yaml:"format"`
	Verbose bool   `yaml:"verbose"`

	// Workers is the number of rendering goroutines; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultSettings returns DefaultConfig with 100 PNG samples written to
// images/.
func DefaultSettings() Settings {
	return Settings{
		Config:  DefaultConfig(),
		Samples: 100,
		Out:     "images",
		Format:  FormatPNG,
	}
}

// Validate checks the program options and the embedded Config.
func (s Settings) Validate() error {
	switch {
	case s.Samples < 1:
		return fmt.Errorf("%w: number of samples must be positive, got %d", ErrInvalidSettings, s.Samples)
	case !s.Format.IsValid():
		return fmt.Errorf("%w: unknown format %d", ErrInvalidSettings, uint8(s.Format))
	case s.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSettings, s.Workers)
	}
	return s.Config.Validate()
}

// LoadSettings reads a settings file. Keys that are missing keep their
// DefaultSettings values; unknown keys are an error.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Settings{}, fmt.Errorf("genart: read settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes settings from YAML. See LoadSettings.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("genart: parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Marshal encodes s as YAML.
func (s Settings) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("genart: encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("genart: encode settings: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves s to path as YAML.
func (s Settings) Write(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("genart: write settings: %w", err)
	}
	return nil
}
