package genart

// Option configures a Generator during creation.
//
// Example:
//
//	// Default: GOMAXPROCS workers, PNG files in the current directory.
//	g, err := genart.NewGenerator(cfg)
//
//	// Four workers, images written as TIFF under out/.
//	g, err := genart.NewGenerator(cfg,
//	    genart.WithWorkers(4),
//	    genart.WithSink(genart.FileSink{Dir: "out", Format: genart.FormatTIFF}))
type Option func(*generatorOptions)

// generatorOptions holds optional configuration for Generator creation.
type generatorOptions struct {
	workers  int
	sink     Sink
	seeds    SeedSource
	bandRows int
}

// defaultOptions returns the default generator options.
func defaultOptions() generatorOptions {
	return generatorOptions{
		workers:  0, // GOMAXPROCS
		sink:     FileSink{Format: FormatPNG},
		seeds:    defaultSeedSource{},
		bandRows: 0, // parallel.BandRows
	}
}

// WithWorkers sets the number of rendering goroutines. Zero or negative
// selects GOMAXPROCS. The worker count never changes the rendered pixels.
func WithWorkers(n int) Option {
	return func(o *generatorOptions) {
		o.workers = n
	}
}

// WithSink sets where accepted images are written. A nil sink keeps the
// default.
func WithSink(s Sink) Option {
	return func(o *generatorOptions) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithSeedSource sets the source of fresh seeds used when a Config seed is
// zero. A nil source keeps the default.
//
// Example:
//
//	// Reproducible batch: seeds drawn from a fixed sequence.
//	r := rand.New(rand.NewPCG(1, 2))
//	g, err := genart.NewGenerator(cfg, genart.WithSeedSource(genart.SeedFunc(r.Uint32)))
func WithSeedSource(s SeedSource) Option {
	return func(o *generatorOptions) {
		if s != nil {
			o.seeds = s
		}
	}
}

// WithBandRows sets the number of pixel rows per work unit. Results are
// identical for every band size; it only tunes scheduling granularity.
func WithBandRows(rows int) Option {
	return func(o *generatorOptions) {
		o.bandRows = rows
	}
}
