package genart

import (
	"errors"
	"fmt"

	"github.com/gogpu/genart/internal/color"
	"github.com/gogpu/genart/internal/fpool"
)

// ErrInvalidConfig is returned by Config.Validate for settings that cannot
// produce an image.
var ErrInvalidConfig = errors.New("genart: invalid config")

// Projection selects how color polynomial values are folded into a byte.
type Projection = color.Projection

// Projections. Their numeric values appear in file names.
const (
	ProjectionCap            = color.Cap
	ProjectionPeriodic       = color.Periodic
	ProjectionSmoothPeriodic = color.SmoothPeriodic
)

// ParseProjection accepts "cap", "periodic", "smooth-periodic" or 0, 1, 2.
func ParseProjection(s string) (Projection, error) {
	return color.ParseProjection(s)
}

// Registry sizes. A Config using these limits draws from every operator.
const (
	UnaryFunctions  = fpool.NumUnary
	BinaryFunctions = fpool.NumBinary
)

// Config is the complete, reproducible description of an image: together
// with the two seeds it determines every pixel. Generators never modify it.
type Config struct {
	// FunctionSeed and ColorSeed seed the expression tree and the color map.
	// Zero draws a fresh seed for every image.
	FunctionSeed uint32 `yaml:"function-seed"`
	ColorSeed    uint32 `yaml:"color-seed"`

	// UnaryFunctions and BinaryFunctions limit how many registry entries
	// may be drawn, so images made before the registry grew still reproduce.
	UnaryFunctions  int `yaml:"num-unary-functions"`
	BinaryFunctions int `yaml:"num-binary-functions"`

	// FunctionDepth bounds the depth of the expression tree.
	FunctionDepth Domain[int] `yaml:"function-depth"`
	// FunctionParams bounds the per-node multipliers.
	FunctionParams Domain[float64] `yaml:"function-params"`

	// ColorPolyDegree and ColorPolyParams bound the color polynomials.
	ColorPolyDegree Domain[int]     `yaml:"color-poly-deg"`
	ColorPolyParams Domain[float64] `yaml:"color-poly-params"`

	Projection Projection `yaml:"projection-type"`

	// X and Y are the region of the plane rendered.
	X Domain[float64] `yaml:"x-domain"`
	Y Domain[float64] `yaml:"y-domain"`

	// Resolution is the number of pixels per unit length.
	Resolution int `yaml:"resolution"`

	// Normalize rescales near-constant channels.
	Normalize bool `yaml:"normalize"`

	// AllPermutations writes all six channel orders of each image.
	AllPermutations bool `yaml:"all-permutations"`
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() Config {
	return Config{
		UnaryFunctions:  UnaryFunctions,
		BinaryFunctions: BinaryFunctions,
		FunctionDepth:   Domain[int]{Min: 4, Max: 7},
		FunctionParams:  Domain[float64]{Min: 1, Max: 1.9},
		ColorPolyDegree: Domain[int]{Min: 2, Max: 3},
		ColorPolyParams: Domain[float64]{Min: -96, Max: 96},
		Projection:      ProjectionCap,
		X:               Domain[float64]{Min: 0, Max: 1},
		Y:               Domain[float64]{Min: 0, Max: 1},
		Resolution:      200,
		Normalize:       true,
	}
}

// Validate checks c before any generation work is done.
func (c Config) Validate() error {
	domains := []struct {
		name string
		err  error
	}{
		{"function-depth", c.FunctionDepth.Validate()},
		{"function-params", c.FunctionParams.Validate()},
		{"color-poly-deg", c.ColorPolyDegree.Validate()},
		{"color-poly-params", c.ColorPolyParams.Validate()},
		{"x-domain", c.X.Validate()},
		{"y-domain", c.Y.Validate()},
	}
	for _, d := range domains {
		if d.err != nil {
			return fmt.Errorf("%s: %w", d.name, d.err)
		}
	}

	switch {
	case c.FunctionDepth.Min < 1:
		return fmt.Errorf("%w: function depth must be at least 1, got %d", ErrInvalidConfig, c.FunctionDepth.Min)
	case c.ColorPolyDegree.Min < 0:
		return fmt.Errorf("%w: color polynomial degree must not be negative, got %d", ErrInvalidConfig, c.ColorPolyDegree.Min)
	case c.UnaryFunctions < 1 || c.BinaryFunctions < 1:
		return fmt.Errorf("%w: function pool limits must be positive, got %d and %d",
			ErrInvalidConfig, c.UnaryFunctions, c.BinaryFunctions)
	case !c.Projection.Valid():
		return fmt.Errorf("%w: unknown projection %d", ErrInvalidConfig, uint8(c.Projection))
	case c.Resolution < 1:
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidConfig, c.Resolution)
	}

	if w, h := c.Dimensions(); w < 1 || h < 1 {
		return fmt.Errorf("%w: empty image %dx%d for x %v, y %v at resolution %d",
			ErrInvalidConfig, w, h, c.X, c.Y, c.Resolution)
	}
	return nil
}

// Dimensions returns the image size in pixels.
func (c Config) Dimensions() (width, height int) {
	res := float64(c.Resolution)
	return int(c.X.Width() * res), int(c.Y.Width() * res)
}

// WithSeeds returns a copy of c with the given seeds.
func (c Config) WithSeeds(functionSeed, colorSeed uint32) Config {
	c.FunctionSeed = functionSeed
	c.ColorSeed = colorSeed
	return c
}
