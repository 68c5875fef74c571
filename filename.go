package genart

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/genart/internal/image"
)

// ErrInvalidFileName is returned when a file name does not hold a complete
// generation config.
var ErrInvalidFileName = errors.New("genart: invalid file name")

const (
	// fileNameFields is the number of fields of an encoded config. The field
	// order is frozen: changing it breaks every file name generated so far.
	fileNameFields = 17

	fileNameDelimiter = "."

	// floatScale is the fixed-point factor for floating fields.
	floatScale = 100
)

// FileName encodes c as the base name of an output file, without extension:
//
//	fseed.cseed.unary.binary.dmin.dmax.pmin.pmax.cdmin.cdmax.cpmin.cpmax.proj.xmin.xmax.ymin.ymax
//
// Floating fields are multiplied by 100 and truncated.
func (c Config) FileName() string {
	fields := [fileNameFields]string{
		strconv.FormatUint(uint64(c.FunctionSeed), 10),
		strconv.FormatUint(uint64(c.ColorSeed), 10),
		strconv.Itoa(c.UnaryFunctions),
		strconv.Itoa(c.BinaryFunctions),
		strconv.Itoa(c.FunctionDepth.Min),
		strconv.Itoa(c.FunctionDepth.Max),
		strconv.Itoa(toFixed(c.FunctionParams.Min)),
		strconv.Itoa(toFixed(c.FunctionParams.Max)),
		strconv.Itoa(c.ColorPolyDegree.Min),
		strconv.Itoa(c.ColorPolyDegree.Max),
		strconv.Itoa(toFixed(c.ColorPolyParams.Min)),
		strconv.Itoa(toFixed(c.ColorPolyParams.Max)),
		strconv.Itoa(int(c.Projection)),
		strconv.Itoa(toFixed(c.X.Min)),
		strconv.Itoa(toFixed(c.X.Max)),
		strconv.Itoa(toFixed(c.Y.Min)),
		strconv.Itoa(toFixed(c.Y.Max)),
	}
	return strings.Join(fields[:], fileNameDelimiter)
}

// ParseFileName decodes a name produced by FileName into DefaultConfig.
// See ApplyFileName for the accepted forms.
func ParseFileName(name string) (Config, error) {
	return DefaultConfig().ApplyFileName(name)
}

// ApplyFileName returns c with the 17 encoded fields of name replaced.
// Fields that are not part of a file name, such as the resolution, keep the
// values of c.
//
// name may carry a directory, an image extension and the permutation index
// (1 to 6) written by AllPermutations. Anything else is an error wrapping
// ErrInvalidFileName; c is never partially updated.
func (c Config) ApplyFileName(name string) (Config, error) {
	base := filepath.Base(name)
	if _, ok := image.FormatFromPath(base); ok {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	fields := strings.Split(base, fileNameDelimiter)
	if len(fields) == fileNameFields+1 {
		if n, err := strconv.Atoi(fields[fileNameFields]); err == nil && n >= 1 && n <= len(Permutations) {
			fields = fields[:fileNameFields]
		}
	}
	if len(fields) != fileNameFields {
		return c, fmt.Errorf("%w: %q has %d fields, want %d", ErrInvalidFileName, name, len(fields), fileNameFields)
	}

	p := fieldParser{fields: fields}
	out := c
	out.FunctionSeed = p.seed()
	out.ColorSeed = p.seed()
	out.UnaryFunctions = p.integer()
	out.BinaryFunctions = p.integer()
	out.FunctionDepth = Domain[int]{Min: p.integer(), Max: p.integer()}
	out.FunctionParams = Domain[float64]{Min: p.fixed(), Max: p.fixed()}
	out.ColorPolyDegree = Domain[int]{Min: p.integer(), Max: p.integer()}
	out.ColorPolyParams = Domain[float64]{Min: p.fixed(), Max: p.fixed()}
	out.Projection = p.projection()
	out.X = Domain[float64]{Min: p.fixed(), Max: p.fixed()}
	out.Y = Domain[float64]{Min: p.fixed(), Max: p.fixed()}
	if p.err != nil {
		return c, fmt.Errorf("%w: %q: %v", ErrInvalidFileName, name, p.err)
	}

	if err := out.Validate(); err != nil {
		return c, fmt.Errorf("%w: %q: %v", ErrInvalidFileName, name, err)
	}
	return out, nil
}

// fieldParser consumes fields in order and remembers the first error.
type fieldParser struct {
	fields []string
	next   int
	err    error
}

func (p *fieldParser) take() string {
	s := p.fields[p.next]
	p.next++
	return s
}

func (p *fieldParser) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("field %d: %w", p.next, err)
	}
}

func (p *fieldParser) seed() uint32 {
	v, err := strconv.ParseUint(p.take(), 10, 32)
	if err != nil {
		p.fail(err)
	}
	return uint32(v)
}

func (p *fieldParser) integer() int {
	v, err := strconv.Atoi(p.take())
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *fieldParser) projection() Projection {
	v := p.integer()
	if v < 0 || v > math.MaxUint8 || !Projection(v).Valid() {
		p.fail(fmt.Errorf("unknown projection %d", v))
		return 0
	}
	return Projection(v)
}

func (p *fieldParser) fixed() float64 {
	return float64(p.integer()) / floatScale
}

// toFixed scales v by floatScale and truncates toward zero. Values that are
// within rounding error of an integer snap to it, so 1.9 encodes as 190.
func toFixed(v float64) int {
	s := v * floatScale
	if r := math.Round(s); math.Abs(s-r) < 1e-6 {
		return int(r)
	}
	return int(math.Trunc(s))
}
