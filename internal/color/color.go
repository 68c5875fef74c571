// Package color maps scalar field values to RGB bytes.
//
// A Map holds three random polynomials, one per channel. A value z is run
// through each polynomial and the result is projected into a byte by the
// Map's Projection.
package color

import (
	"fmt"
	"math"

	"github.com/gogpu/genart/internal/poly"
	"github.com/gogpu/genart/internal/rng"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Projection selects how a real number is folded into [0,255].
// The numeric values are stored in file names and must not change.
type Projection uint8

const (
	// Cap clamps to [0,255].
	Cap Projection = iota
	// Periodic wraps modulo 256.
	Periodic
	// SmoothPeriodic maps x = v mod 2 to 255 * x^2 * (x-2)^2.
	SmoothPeriodic
)

var projectionNames = [...]string{"cap", "periodic", "smooth-periodic"}

// String returns the name used by the CLI and settings files.
func (p Projection) String() string {
	if p.Valid() {
		return projectionNames[p]
	}
	return fmt.Sprintf("Projection(%d)", uint8(p))
}

// Valid reports whether p is a known projection.
func (p Projection) Valid() bool {
	return int(p) < len(projectionNames)
}

// ParseProjection accepts a projection name or its numeric value.
func ParseProjection(s string) (Projection, error) {
	for i, name := range projectionNames {
		if s == name || s == fmt.Sprint(i) {
			return Projection(i), nil
		}
	}
	switch s {
	case "smooth_periodic", "smoothperiodic":
		return SmoothPeriodic, nil
	}
	return 0, fmt.Errorf("color: unknown projection %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Projection) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("color: unknown projection %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Projection) UnmarshalText(text []byte) error {
	v, err := ParseProjection(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Set parses s into p. It implements the pflag.Value interface.
func (p *Projection) Set(s string) error {
	return p.UnmarshalText([]byte(s))
}

// Type names the value kind in flag usage output.
func (p *Projection) Type() string {
	return "projection"
}

// Project folds v into a byte. It is pure and safe for concurrent use.
//
// Non-finite input is handled explicitly: Cap maps NaN and +Inf to 255 and
// -Inf to 0, the periodic projections map any non-finite value to 0.
func Project(p Projection, v float64) uint8 {
	switch p {
	case Periodic:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		m := floorMod(v, 256)
		if m >= 256 {
			return 0
		}
		return uint8(m)
	case SmoothPeriodic:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		x := floorMod(v, 2)
		if x >= 2 {
			x = 0
		}
		y := 255 * x * x * (x - 2) * (x - 2)
		if y > 255 {
			y = 255
		}
		return uint8(y)
	default:
		if math.IsNaN(v) || v >= 255 {
			return 255
		}
		if v <= 0 {
			return 0
		}
		return uint8(v)
	}
}

// floorMod returns v mod m with the sign of m.
func floorMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

// Map is a random polynomial color map.
type Map struct {
	projection Projection
	r, g, b    poly.Polynomial
}

// Params bounds the random polynomials of a Map.
type Params struct {
	DegreeMin, DegreeMax int
	CoeffMin, CoeffMax   float64
}

// New draws the red, green and blue polynomials from s, in that order.
// s should be seeded independently of the stream used for the expression tree
// so that function and colors can be regenerated separately.
func New(s *rng.Stream, proj Projection, p Params) *Map {
	m := &Map{projection: proj}
	m.r = poly.Random(s, p.DegreeMin, p.DegreeMax, p.CoeffMin, p.CoeffMax)
	m.g = poly.Random(s, p.DegreeMin, p.DegreeMax, p.CoeffMin, p.CoeffMax)
	m.b = poly.Random(s, p.DegreeMin, p.DegreeMax, p.CoeffMin, p.CoeffMax)
	return m
}

// NewFromPolynomials builds a Map from explicit channel polynomials.
func NewFromPolynomials(proj Projection, r, g, b poly.Polynomial) *Map {
	return &Map{projection: proj, r: r, g: g, b: b}
}

// Projection returns the projection of m.
func (m *Map) Projection() Projection {
	return m.projection
}

// Color maps z to a color.
func (m *Map) Color(z float64) RGB {
	return RGB{
		R: Project(m.projection, m.r.Eval(z)),
		G: Project(m.projection, m.g.Eval(z)),
		B: Project(m.projection, m.b.Eval(z)),
	}
}

// String lists the three channel polynomials.
func (m *Map) String() string {
	return "r = " + m.r.String() + "\ng = " + m.g.String() + "\nb = " + m.b.String()
}
