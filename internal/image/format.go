package image

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format uint8

const (
	// FormatPNG is lossless PNG, the default.
	FormatPNG Format = iota
	// FormatBMP is uncompressed 24-bit BMP.
	FormatBMP
	// FormatTIFF is deflate-compressed TIFF.
	FormatTIFF
	// FormatJPEG is JPEG at DefaultJPEGQuality.
	FormatJPEG

	formatCount
)

var formatInfo = [formatCount]struct {
	name string
	ext  string
	alts []string
}{
	FormatPNG:  {"png", ".png", nil},
	FormatBMP:  {"bmp", ".bmp", nil},
	FormatTIFF: {"tiff", ".tiff", []string{".tif"}},
	FormatJPEG: {"jpeg", ".jpg", []string{".jpeg"}},
}

// String returns the format name.
func (f Format) String() string {
	if f.IsValid() {
		return formatInfo[f].name
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string {
	if !f.IsValid() {
		return ""
	}
	return formatInfo[f].ext
}

// ParseFormat accepts a format name or extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for f := range formatCount {
		info := formatInfo[f]
		if s == info.name || "."+s == info.ext {
			return f, nil
		}
		for _, alt := range info.alts {
			if "."+s == alt {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Set parses s into f. It implements the pflag.Value interface.
func (f *Format) Set(s string) error {
	return f.UnmarshalText([]byte(s))
}

// Type names the value kind in flag usage output.
func (f *Format) Type() string {
	return "format"
}
