// genart generates random abstract images.
//
// Each image is drawn from a random function f(x, y) and three random color
// polynomials. The file name of every image encodes everything needed to
// render it again, for example at a higher resolution:
//
//	genart -s 20 -o images
//	genart -f images/1234.5678.13.4.4.7.100.190.2.3.-9600.9600.0.0.100.0.100.png -r 4000
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/genart"
)

// seedResolution is the resolution used when both seeds are given without
// an explicit resolution.
const seedResolution = 4000

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "genart: %v\n", err)
		os.Exit(1)
	}
}

// randomnessFlags cannot be combined with --file-name, which already fixes
// every random choice.
var randomnessFlags = []string{
	"function-depth", "function-params", "color-poly-deg", "color-poly-params",
	"function-seed", "color-seed", "num-unary-functions", "num-binary-functions",
}

// cli holds the parsed command line.
type cli struct {
	flags *pflag.FlagSet

	// values receives every settings flag. Only flags that were given are
	// copied onto the effective settings.
	values genart.Settings

	config      string
	writeConfig string
	fileName    string
	noNormalize bool
	help        bool
}

func newCLI(stderr io.Writer) *cli {
	c := &cli{values: genart.DefaultSettings()}
	v := &c.values
	fs := pflag.NewFlagSet("genart", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	// Program options.
	fs.IntVarP(&v.Samples, "num-samples", "s", v.Samples, "number of images to generate")
	fs.BoolVarP(&v.Verbose, "verbose", "v", false, "log details about every image")
	fs.StringVarP(&v.Out, "out", "o", v.Out, "output directory, created if missing")
	fs.StringVar(&c.config, "config", "", "read settings from this YAML file; flags override it")
	fs.StringVarP(&c.writeConfig, "write-config", "w", "", "write the effective settings to this YAML file")
	fs.Var(&v.Format, "format", "output format: png, bmp, tiff or jpeg")
	fs.IntVarP(&v.Workers, "workers", "j", 0, "rendering goroutines (0 means one per CPU)")

	// Randomness options.
	fs.StringVarP(&c.fileName, "file-name", "f", "", "render the image with this file name again; excludes the randomness options")
	fs.VarP(&v.FunctionDepth, "function-depth", "D", "domain the function depth is drawn from")
	fs.VarP(&v.FunctionParams, "function-params", "P", "domain the function parameters are drawn from")
	fs.VarP(&v.ColorPolyDegree, "color-poly-deg", "d", "domain the color polynomial degree is drawn from")
	fs.VarP(&v.ColorPolyParams, "color-poly-params", "p", "domain the color polynomial coefficients are drawn from")
	fs.Uint32VarP(&v.FunctionSeed, "function-seed", "F", 0, "seed of the random function; with --color-seed only one image is generated")
	fs.Uint32VarP(&v.ColorSeed, "color-seed", "C", 0, "seed of the color polynomials; with --function-seed only one image is generated")
	fs.IntVar(&v.UnaryFunctions, "num-unary-functions", v.UnaryFunctions, "number of unary functions available, for images made by older versions")
	fs.IntVar(&v.BinaryFunctions, "num-binary-functions", v.BinaryFunctions, "number of binary functions available, for images made by older versions")

	// Image options.
	fs.IntVarP(&v.Resolution, "resolution", "r", v.Resolution, "pixels per unit length")
	fs.VarP(&v.X, "x-domain", "x", "min and max of the x dimension")
	fs.VarP(&v.Y, "y-domain", "y", "min and max of the y dimension")
	fs.BoolVarP(&c.noNormalize, "no-normalization", "n", false, "do not rescale near-constant color channels")
	fs.Var(&v.Projection, "projection-type", "how color values are folded into [0,255]: cap, periodic or smooth-periodic")
	fs.BoolVarP(&v.AllPermutations, "all-permutations", "a", false, "also write the five other channel orders of every image")

	fs.BoolVarP(&c.help, "help", "h", false, "show help")
	c.flags = fs
	return c
}

// apply copies the given flags from the command line onto s.
func (c *cli) apply(s *genart.Settings) {
	v := &c.values
	setters := map[string]func(){
		"num-samples":          func() { s.Samples = v.Samples },
		"verbose":              func() { s.Verbose = v.Verbose },
		"out":                  func() { s.Out = v.Out },
		"format":               func() { s.Format = v.Format },
		"workers":              func() { s.Workers = v.Workers },
		"function-depth":       func() { s.FunctionDepth = v.FunctionDepth },
		"function-params":      func() { s.FunctionParams = v.FunctionParams },
		"color-poly-deg":       func() { s.ColorPolyDegree = v.ColorPolyDegree },
		"color-poly-params":    func() { s.ColorPolyParams = v.ColorPolyParams },
		"function-seed":        func() { s.FunctionSeed = v.FunctionSeed },
		"color-seed":           func() { s.ColorSeed = v.ColorSeed },
		"num-unary-functions":  func() { s.UnaryFunctions = v.UnaryFunctions },
		"num-binary-functions": func() { s.BinaryFunctions = v.BinaryFunctions },
		"resolution":           func() { s.Resolution = v.Resolution },
		"x-domain":             func() { s.X = v.X },
		"y-domain":             func() { s.Y = v.Y },
		"no-normalization":     func() { s.Normalize = !c.noNormalize },
		"projection-type":      func() { s.Projection = v.Projection },
		"all-permutations":     func() { s.AllPermutations = v.AllPermutations },
	}
	c.flags.Visit(func(f *pflag.Flag) {
		if set, ok := setters[f.Name]; ok {
			set()
		}
	})
}

// settings resolves the effective settings: defaults or the config file,
// then the decoded file name, then the flags.
func (c *cli) settings() (genart.Settings, error) {
	s := genart.DefaultSettings()
	if c.config != "" {
		var err error
		if s, err = genart.LoadSettings(c.config); err != nil {
			return s, err
		}
	}

	if c.fileName != "" {
		for _, name := range randomnessFlags {
			if c.flags.Changed(name) {
				return s, fmt.Errorf("--file-name excludes --%s", name)
			}
		}
		cfg, err := s.Config.ApplyFileName(c.fileName)
		if err != nil {
			return s, err
		}
		s.Config = cfg
	}

	c.apply(&s)

	if s.FunctionSeed != 0 && s.ColorSeed != 0 {
		s.Samples = 1
		if !c.flags.Changed("resolution") && s.Resolution == genart.DefaultConfig().Resolution {
			s.Resolution = seedResolution
		}
	}
	return s, s.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := newCLI(stderr)
	if err := c.flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if c.help {
		printHelp(stderr, c.flags)
		return nil
	}
	if c.flags.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", c.flags.Arg(0))
	}

	s, err := c.settings()
	if err != nil {
		return err
	}

	if s.Verbose {
		genart.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer genart.SetLogger(nil)
	}
	log := genart.Logger()
	if c.config != "" {
		log.Info("settings loaded", "path", c.config)
	}
	if s.FunctionSeed != 0 && s.ColorSeed != 0 {
		log.Info("both seeds are set, generating one image", "resolution", s.Resolution)
	}

	if c.writeConfig != "" {
		if err := s.Write(c.writeConfig); err != nil {
			return err
		}
		log.Info("settings written", "path", c.writeConfig)
	}

	if err := os.MkdirAll(s.Out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sink := genart.FileSink{Dir: s.Out, Format: s.Format}
	g, err := genart.NewGenerator(s.Config, genart.WithWorkers(s.Workers), genart.WithSink(sink))
	if err != nil {
		return err
	}
	defer g.Close()

	p := message.NewPrinter(language.English)
	sum, err := genart.RunSamples(ctx, g, s.Samples, func(res genart.Result) {
		if !res.Accepted {
			log.Debug("image rejected", "function-seed", res.FunctionSeed, "color-seed", res.ColorSeed, "reason", res.Reason)
			return
		}
		for _, name := range res.Names {
			fmt.Fprintln(stdout, sink.Path(name))
		}
	})

	w, h := s.Dimensions()
	p.Fprintf(stderr, "%d of %d images written (%d×%d, %d pixels each), %d rejected\n",
		sum.Accepted, s.Samples, w, h, w*h, sum.Rejected)
	if sum.GaveUp {
		p.Fprintf(stderr, "gave up after more than %d rejected images per accepted image\n",
			genart.MaxFailuresPerSuccess)
	}
	return err
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprint(w, `genart generates random images from random functions.

Every file name encodes the seeds and parameters of its image. Pass it to
--file-name to render the same image again, for example at a higher
resolution.

Usage:
  genart [flags]

Examples:
  # 20 images in ./images
  genart -s 20

  # Re-render an image at 4000 pixels per unit
  genart -f images/<name>.png

  # Reproducible settings
  genart -s 5 --projection-type periodic -w genart.yaml
  genart --config genart.yaml

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
