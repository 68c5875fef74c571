// Package fpool holds the registry of scalar operators that expression trees
// are built from.
//
// Operator indices are recorded implicitly by every generated image: a tree is
// regenerated from its seed by drawing the same indices again. New operators
// must therefore only ever be appended to the end of Unary or Binary. Inserting,
// removing or reordering entries changes every image produced so far.
package fpool

import "math"

// UnaryOp is a single-argument operator with its textual template.
type UnaryOp struct {
	Fn func(a float64) float64

	// Prefix and Suffix surround the operand when the operator is printed.
	Prefix, Suffix string
}

// BinaryOp is a two-argument operator with its textual template.
type BinaryOp struct {
	Fn func(a, b float64) float64

	// Prefix, Infix and Suffix surround the two operands when printed.
	Prefix, Infix, Suffix string
}

// Unary is the registry of unary operators. Append only.
var Unary = [...]UnaryOp{
	{Fn: math.Sin, Prefix: "sin(", Suffix: ")"},
	{Fn: math.Cos, Prefix: "cos(", Suffix: ")"},
	{Fn: math.Exp, Prefix: "exp(", Suffix: ")"},
	{Fn: math.Log, Prefix: "log(", Suffix: ")"},
	{Fn: math.Sinh, Prefix: "sinh(", Suffix: ")"},
	{Fn: math.Cosh, Prefix: "cosh(", Suffix: ")"},
	{Fn: math.Tanh, Prefix: "tanh(", Suffix: ")"},
	{Fn: math.Abs, Prefix: "|", Suffix: "|"},
	{Fn: math.Sqrt, Prefix: "sqrt(", Suffix: ")"},
	// identity, lets a branch end early without changing its value
	{Fn: func(a float64) float64 { return a }},
	{Fn: func(a float64) float64 { return -a }, Prefix: "-"},
	{Fn: func(a float64) float64 { return a * a }, Prefix: "(", Suffix: ")^2"},
	{Fn: func(a float64) float64 { return a * a * a }, Prefix: "(", Suffix: ")^3"},
}

// Binary is the registry of binary operators. Append only.
var Binary = [...]BinaryOp{
	{Fn: func(a, b float64) float64 { return a + b }, Prefix: "(", Infix: " + ", Suffix: ")"},
	{Fn: func(a, b float64) float64 { return a - b }, Prefix: "(", Infix: " - ", Suffix: ")"},
	{Fn: func(a, b float64) float64 { return a * b }, Prefix: "(", Infix: " * ", Suffix: ")"},
	{Fn: func(a, b float64) float64 { return math.Sin(a * b) }, Prefix: "sin(", Infix: " * ", Suffix: ")"},
}

// NumUnary is the number of registered unary operators.
const NumUnary = len(Unary)

// NumBinary is the number of registered binary operators.
const NumBinary = len(Binary)

// Eligible returns how many operators of a pool of size n may be drawn when
// the caller restricts the pool to limit entries. A non-positive limit means
// no restriction.
func Eligible(n, limit int) int {
	if limit <= 0 || limit > n {
		return n
	}
	return limit
}
