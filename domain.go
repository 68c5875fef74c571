package genart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDomain is returned for a domain whose minimum exceeds its maximum
// or that cannot be parsed.
var ErrInvalidDomain = errors.New("genart: invalid domain")

// Number is the set of element types a Domain can hold.
type Number interface {
	~int | ~float64
}

// Domain is the closed interval [Min, Max] random draws are taken from.
//
// A Domain is a plain value; Validate reports whether Min <= Max.
type Domain[T Number] struct {
	Min T
	Max T
}

// NewDomain returns the domain [lo, hi], or ErrInvalidDomain if lo > hi.
func NewDomain[T Number](lo, hi T) (Domain[T], error) {
	d := Domain[T]{Min: lo, Max: hi}
	return d, d.Validate()
}

// Validate reports ErrInvalidDomain if Min > Max or a bound is NaN.
func (d Domain[T]) Validate() error {
	if !(d.Min <= d.Max) {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidDomain, d.Min, d.Max)
	}
	return nil
}

// Width returns Max - Min.
func (d Domain[T]) Width() T {
	return d.Max - d.Min
}

// Contains reports whether v lies in [Min, Max].
func (d Domain[T]) Contains(v T) bool {
	return d.Min <= v && v <= d.Max
}

// String formats the domain as "min,max", the form accepted by Set.
func (d Domain[T]) String() string {
	return formatNumber(d.Min) + "," + formatNumber(d.Max)
}

// Set parses "min,max" (a colon or whitespace also separates the bounds).
// It implements the flag.Value and pflag.Value interfaces.
func (d *Domain[T]) Set(s string) error {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ':' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return fmt.Errorf("%w: %q: want \"min,max\"", ErrInvalidDomain, s)
	}
	lo, err := parseNumber[T](fields[0])
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidDomain, s, err)
	}
	hi, err := parseNumber[T](fields[1])
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidDomain, s, err)
	}
	v, err := NewDomain(lo, hi)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Type names the value kind in pflag usage output.
func (d *Domain[T]) Type() string {
	var zero T
	if _, ok := any(zero).(int); ok {
		return "int,int"
	}
	return "float,float"
}

// MarshalYAML encodes the domain as a two-element sequence.
func (d Domain[T]) MarshalYAML() (any, error) {
	return []T{d.Min, d.Max}, nil
}

// UnmarshalYAML decodes a two-element sequence and validates it.
func (d *Domain[T]) UnmarshalYAML(value *yaml.Node) error {
	var pair []T
	if err := value.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: line %d: want [min, max], got %d values", ErrInvalidDomain, value.Line, len(pair))
	}
	v, err := NewDomain(pair[0], pair[1])
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func parseNumber[T Number](s string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int:
		n, err := strconv.Atoi(s)
		return T(n), err
	default:
		f, err := strconv.ParseFloat(s, 64)
		return T(f), err
	}
}

func formatNumber[T Number](v T) string {
	switch x := any(v).(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
