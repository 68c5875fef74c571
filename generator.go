package genart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gogpu/genart/internal/color"
	"github.com/gogpu/genart/internal/expr"
	"github.com/gogpu/genart/internal/parallel"
	"github.com/gogpu/genart/internal/rng"
)

// Generator renders images for one Config. It owns a worker pool; call Close
// when done.
//
// Generate and Render may be called repeatedly but not concurrently.
type Generator struct {
	cfg      Config
	pool     *parallel.Pool
	sink     Sink
	seeds    SeedSource
	bandRows int
}

// NewGenerator validates cfg and starts the worker pool.
func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Generator{
		cfg:      cfg,
		pool:     parallel.NewPool(o.workers),
		sink:     o.sink,
		seeds:    o.seeds,
		bandRows: o.bandRows,
	}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Workers returns the number of rendering goroutines.
func (g *Generator) Workers() int {
	return g.pool.Workers()
}

// Close stops the worker pool. Rendering after Close runs on the calling
// goroutine.
func (g *Generator) Close() {
	g.pool.Close()
}

// Image is a rendered image and everything measured while rendering it.
type Image struct {
	FunctionSeed uint32
	ColorSeed    uint32

	// Depth is the drawn depth of the expression tree.
	Depth int

	// Values holds the scalar field, row-major, one value per pixel.
	Values []float64

	// Raster is the final color image, after normalization.
	Raster *Raster

	// Stats are measured before normalization. Variances are NaN when a
	// fast check rejected the image.
	Stats Stats

	Rejected RejectReason

	// Normalized reports which channels were rescaled.
	Normalized [3]bool

	tree *expr.Tree
	cmap *color.Map
}

// Function renders the expression tree as text.
func (img *Image) Function() string {
	return img.tree.String()
}

// Colors renders the three color polynomials as text.
func (img *Image) Colors() string {
	return img.cmap.String()
}

// Render builds the function and color map for the seeds and evaluates them
// over the configured grid. It writes nothing. The result depends only on the
// Config and the two seeds, never on the worker count.
func (g *Generator) Render(functionSeed, colorSeed uint32) *Image {
	cfg := g.cfg

	fs := rng.New(functionSeed)
	depth := fs.IntRange(cfg.FunctionDepth.Min, cfg.FunctionDepth.Max)
	tree := expr.New(fs, depth, expr.Params{
		MultMin:     cfg.FunctionParams.Min,
		MultMax:     cfg.FunctionParams.Max,
		UnaryLimit:  cfg.UnaryFunctions,
		BinaryLimit: cfg.BinaryFunctions,
	})

	cs := rng.New(colorSeed)
	cmap := color.New(cs, cfg.Projection, color.Params{
		DegreeMin: cfg.ColorPolyDegree.Min,
		DegreeMax: cfg.ColorPolyDegree.Max,
		CoeffMin:  cfg.ColorPolyParams.Min,
		CoeffMax:  cfg.ColorPolyParams.Max,
	})

	w, h := cfg.Dimensions()
	img := &Image{
		FunctionSeed: functionSeed,
		ColorSeed:    colorSeed,
		Depth:        depth,
		Values:       make([]float64, w*h),
		Raster:       NewRaster(w, h),
		tree:         tree,
		cmap:         cmap,
	}

	bands := parallel.Bands(h, g.bandRows)
	run := g.pool.ForEachBand
	step := 1 / float64(cfg.Resolution)
	pix := img.Raster.pix

	// Pass 1: evaluate, color and reduce.
	parts := make([]partial, len(bands))
	run(bands, func(b parallel.Band) {
		p := newPartial()
		for py := b.Y0; py < b.Y1; py++ {
			y := float64(py)*step + cfg.Y.Min
			for px := range w {
				x := float64(px)*step + cfg.X.Min
				i := py*w + px
				z := tree.Eval(x, y)
				img.Values[i] = z
				c := cmap.Color(z)
				pix[i*3+0], pix[i*3+1], pix[i*3+2] = c.R, c.G, c.B
				p.add(c.R, c.G, c.B)
			}
		}
		parts[b.Index] = p
	})
	img.Stats = foldStats(parts, w*h)

	if img.Rejected = img.Stats.fastReject(); img.Rejected != NotRejected {
		return img
	}

	// Pass 2: variance.
	computeVariances(run, bands, img.Raster, &img.Stats)
	if img.Rejected = img.Stats.varianceReject(); img.Rejected != NotRejected {
		return img
	}

	if cfg.Normalize {
		img.Normalized = normalize(run, bands, img.Raster, &img.Stats)
	}
	return img
}

// Result describes one Generate call.
type Result struct {
	FunctionSeed uint32
	ColorSeed    uint32

	Accepted bool
	Reason   RejectReason

	// Names lists the names passed to the sink, in permutation order.
	Names []string

	// Digest is the BLAKE3 digest of the unpermuted raster. It is only
	// computed for accepted images.
	Digest string
}

// Generate renders one image with the configured seeds, drawing fresh ones
// for seeds left at zero, and writes it to the sink when it passes the
// quality filter. A rejected image is not an error: Result.Accepted is false
// and Result.Reason tells why. Errors come from the sink or from a seed
// source that yields no usable seed.
func (g *Generator) Generate() (Result, error) {
	fseed, err := resolveSeed(g.cfg.FunctionSeed, g.seeds)
	if err != nil {
		return Result{}, err
	}
	cseed, err := resolveSeed(g.cfg.ColorSeed, g.seeds)
	if err != nil {
		return Result{}, err
	}

	log := Logger()
	log.Debug("genart: seeds", "function", fseed, "color", cseed)

	img := g.Render(fseed, cseed)
	log.Debug("genart: function", "depth", img.Depth, "nodes", img.tree.Len(), "expr", img.Function())
	log.Debug("genart: colors", "polynomials", img.Colors(), "projection", g.cfg.Projection)
	logStats(img)

	res := Result{
		FunctionSeed: fseed,
		ColorSeed:    cseed,
		Reason:       img.Rejected,
	}
	if img.Rejected != NotRejected {
		log.Debug("genart: rejected", "reason", img.Rejected)
		return res, nil
	}
	res.Accepted = true
	res.Digest = img.Raster.Digest()
	log.Debug("genart: accepted", "digest", res.Digest)

	name := g.cfg.WithSeeds(fseed, cseed).FileName()
	if !g.cfg.AllPermutations {
		res.Names = []string{name}
		if err := g.sink.Write(name, img.Raster); err != nil {
			return res, fmt.Errorf("genart: write %s: %w", name, err)
		}
		return res, nil
	}

	res.Names = make([]string, len(Permutations))
	errs := make([]error, len(Permutations))
	work := make([]func(), len(Permutations))
	for i, p := range Permutations {
		res.Names[i] = name + fileNameDelimiter + strconv.Itoa(i+1)
		work[i] = func() {
			if err := g.sink.Write(res.Names[i], img.Raster.Permute(p)); err != nil {
				errs[i] = fmt.Errorf("genart: write %s: %w", res.Names[i], err)
			}
		}
	}
	g.pool.ExecuteAll(work)
	return res, errors.Join(errs...)
}

func logStats(img *Image) {
	log := Logger()
	s := img.Stats
	for c, name := range [3]string{"r", "g", "b"} {
		ch := s.Channels[c]
		log.Debug("genart: channel", "channel", name,
			"min", ch.Min, "max", ch.Max, "mean", ch.Mean, "variance", ch.Variance,
			"normalized", img.Normalized[c])
	}
	log.Debug("genart: extremes", "pixels", s.Pixels, "white", s.White, "black", s.Black)
}
