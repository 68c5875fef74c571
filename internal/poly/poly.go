// Package poly implements random polynomials evaluated with Horner's scheme.
package poly

import (
	"strconv"
	"strings"

	"github.com/gogpu/genart/internal/rng"
)

// Polynomial is an immutable coefficient sequence c0..cn where c0 is the
// leading coefficient: p(x) = c0*x^n + c1*x^(n-1) + ... + cn.
type Polynomial struct {
	coeffs []float64
}

// New returns a polynomial with the given coefficients, leading first.
// The slice is copied. An empty slice yields the zero polynomial.
func New(coeffs ...float64) Polynomial {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return Polynomial{coeffs: c}
}

// Random draws a polynomial from s. The degree is drawn first from
// [degMin, degMax], then degree+1 coefficients from [paramMin, paramMax).
func Random(s *rng.Stream, degMin, degMax int, paramMin, paramMax float64) Polynomial {
	degree := s.IntRange(degMin, degMax)
	c := make([]float64, degree+1)
	for i := range c {
		c[i] = s.Float(paramMin, paramMax)
	}
	return Polynomial{coeffs: c}
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Coeffs returns a copy of the coefficients, leading first.
func (p Polynomial) Coeffs() []float64 {
	c := make([]float64, len(p.coeffs))
	copy(c, p.coeffs)
	return c
}

// Eval evaluates p at x.
func (p Polynomial) Eval(x float64) float64 {
	if len(p.coeffs) == 0 {
		return 0
	}
	result := p.coeffs[0]
	for _, c := range p.coeffs[1:] {
		result = result*x + c
	}
	return result
}

// String formats p as "c0 x^n + c1 x^(n-1) + ... + cn".
func (p Polynomial) String() string {
	if len(p.coeffs) == 0 {
		return "0"
	}
	var b strings.Builder
	n := len(p.coeffs) - 1
	for i, c := range p.coeffs {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(strconv.FormatFloat(c, 'f', 4, 64))
		switch e := n - i; {
		case e > 1:
			b.WriteString(" x^")
			b.WriteString(strconv.Itoa(e))
		case e == 1:
			b.WriteString(" x")
		}
	}
	return b.String()
}
