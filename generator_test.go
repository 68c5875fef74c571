package genart

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// smallConfig renders 10x10 images so tests stay fast.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Resolution = 10
	return cfg
}

func newTestGenerator(t *testing.T, cfg Config, opts ...Option) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, opts...)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

// counter is a SeedSource returning 1, 2, 3, ...
type counter struct {
	mu sync.Mutex
	n  uint32
}

func (c *counter) Uint32() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

// memSink records written rasters by name.
type memSink struct {
	mu     sync.Mutex
	images map[string]*Raster
}

func (s *memSink) Write(name string, r *Raster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.images == nil {
		s.images = make(map[string]*Raster)
	}
	s.images[name] = r
	return nil
}

func sameValues(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(Values) = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Float64bits(got[i]) != math.Float64bits(want[i]) {
			t.Fatalf("Values[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNewGenerator_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X = Domain[float64]{1, 0}
	if _, err := NewGenerator(cfg); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("NewGenerator = %v, want ErrInvalidDomain", err)
	}
}

func TestRender_Size(t *testing.T) {
	g := newTestGenerator(t, smallConfig())
	img := g.Render(42, 7)

	if len(img.Values) != 100 {
		t.Errorf("len(Values) = %d, want 100", len(img.Values))
	}
	if img.Raster.Width() != 10 || img.Raster.Height() != 10 {
		t.Errorf("raster = %dx%d, want 10x10", img.Raster.Width(), img.Raster.Height())
	}
	if img.Stats.Pixels != 100 {
		t.Errorf("Stats.Pixels = %d, want 100", img.Stats.Pixels)
	}
	if d := img.Depth; d < 4 || d > 7 {
		t.Errorf("Depth = %d, want in [4, 7]", d)
	}
	if img.Function() == "" || !strings.Contains(img.Colors(), "r = ") {
		t.Errorf("Function() = %q, Colors() = %q", img.Function(), img.Colors())
	}
}

// TestRender_Grid checks that pixel (px, py) holds f(xmin + px/res, ymin + py/res).
func TestRender_Grid(t *testing.T) {
	cfg := smallConfig()
	cfg.X = Domain[float64]{-0.5, 0.75}
	cfg.Y = Domain[float64]{0.25, 0.5}
	g := newTestGenerator(t, cfg)
	img := g.Render(3, 4)

	w, h := cfg.Dimensions()
	if w != 12 || h != 2 {
		t.Fatalf("Dimensions() = %dx%d, want 12x2", w, h)
	}
	for py := range h {
		for px := range w {
			x := float64(px)*0.1 + cfg.X.Min
			y := float64(py)*0.1 + cfg.Y.Min
			want := img.tree.Eval(x, y)
			got := img.Values[py*w+px]
			if math.Float64bits(got) != math.Float64bits(want) {
				t.Fatalf("Values at (%d, %d) = %v, want f(%v, %v) = %v", px, py, got, x, y, want)
			}
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := smallConfig()
	cfg.Resolution = 37 // bands of uneven size

	want := newTestGenerator(t, cfg, WithWorkers(1)).Render(42, 7)
	variants := []struct {
		name string
		opts []Option
	}{
		{"same", []Option{WithWorkers(1)}},
		{"4 workers", []Option{WithWorkers(4)}},
		{"16 workers", []Option{WithWorkers(16)}},
		{"row bands", []Option{WithWorkers(3), WithBandRows(1)}},
		{"one band", []Option{WithWorkers(2), WithBandRows(1000)}},
	}
	for _, v := range variants {
		got := newTestGenerator(t, cfg, v.opts...).Render(42, 7)
		sameValues(t, got.Values, want.Values)
		if got.Raster.Digest() != want.Raster.Digest() {
			t.Errorf("%s: raster digest differs", v.name)
		}
		if diff := cmp.Diff(want.Stats, got.Stats, cmpopts.EquateNaNs()); diff != "" {
			t.Errorf("%s: stats differ (-want +got):\n%s", v.name, diff)
		}
		if got.Rejected != want.Rejected || got.Normalized != want.Normalized {
			t.Errorf("%s: rejected %v normalized %v, want %v %v",
				v.name, got.Rejected, got.Normalized, want.Rejected, want.Normalized)
		}
	}
}

func TestRender_SeedsIndependent(t *testing.T) {
	g := newTestGenerator(t, smallConfig())
	a := g.Render(42, 7)
	b := g.Render(42, 8)
	c := g.Render(43, 7)

	// The color seed never changes the function, and vice versa.
	sameValues(t, b.Values, a.Values)
	if a.Function() != b.Function() {
		t.Error("changing the color seed changed the function")
	}
	if a.Colors() != c.Colors() {
		t.Error("changing the function seed changed the colors")
	}
}

var update = flag.Bool("update", false, "rewrite testdata/render_42_7.golden")

// TestRender_Golden pins seeds 42/7 on the default 10x10 grid: the raster
// digest, the pixel count and the filter outcome. Run with -update to
// record them again after an intended change.
func TestRender_Golden(t *testing.T) {
	g := newTestGenerator(t, smallConfig())
	img := g.Render(42, 7)
	got := fmt.Sprintf("digest %s\npixels %d\nreason %s\n",
		img.Raster.Digest(), img.Stats.Pixels, img.Rejected)

	path := filepath.Join("testdata", "render_42_7.golden")
	if *update {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("%v (record it with go test -run TestRender_Golden -update)", err)
	}
	if img.Stats.Pixels != 100 {
		t.Errorf("Stats.Pixels = %d, want 100", img.Stats.Pixels)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("render of 42/7 (-want +got):\n%s", diff)
	}
}

// generateAccepted calls Generate until an image passes the filter.
func generateAccepted(t *testing.T, g *Generator) Result {
	t.Helper()
	for range 500 {
		res, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if res.Accepted {
			return res
		}
	}
	t.Fatal("no image accepted in 500 attempts")
	return Result{}
}

func TestGenerate_WritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	sink := FileSink{Dir: dir, Format: FormatPNG}
	g := newTestGenerator(t, cfg, WithSink(sink), WithSeedSource(&counter{}))

	res := generateAccepted(t, g)
	if res.FunctionSeed == 0 || res.ColorSeed == 0 {
		t.Errorf("seeds = %d, %d, want non-zero", res.FunctionSeed, res.ColorSeed)
	}
	if len(res.Names) != 1 {
		t.Fatalf("Names = %v, want one", res.Names)
	}
	want := cfg.WithSeeds(res.FunctionSeed, res.ColorSeed).FileName()
	if res.Names[0] != want {
		t.Errorf("name = %q, want %q", res.Names[0], want)
	}
	if _, err := os.Stat(sink.Path(want)); err != nil {
		t.Errorf("output file: %v", err)
	}

	// The name alone reproduces the image.
	back, err := cfg.ApplyFileName(want + ".png")
	if err != nil {
		t.Fatal(err)
	}
	again := newTestGenerator(t, back).Render(back.FunctionSeed, back.ColorSeed)
	if again.Raster.Digest() != res.Digest {
		t.Error("re-rendering from the file name gave a different image")
	}
}

func TestGenerate_FixedSeeds(t *testing.T) {
	cfg := smallConfig().WithSeeds(42, 7)
	g := newTestGenerator(t, cfg, WithSink(&memSink{}), WithSeedSource(SeedFunc(func() uint32 {
		t.Fatal("seed source used although both seeds are set")
		return 0
	})))
	res, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if res.FunctionSeed != 42 || res.ColorSeed != 7 {
		t.Errorf("seeds = %d, %d, want 42, 7", res.FunctionSeed, res.ColorSeed)
	}
	img := g.Render(42, 7)
	if res.Accepted != (img.Rejected == NotRejected) || res.Reason != img.Rejected {
		t.Errorf("Generate: accepted %v reason %v, Render: %v", res.Accepted, res.Reason, img.Rejected)
	}
	if res.Accepted && res.Digest != img.Raster.Digest() {
		t.Error("Generate and Render disagree")
	}
}

func TestGenerate_RejectedHasNoDigest(t *testing.T) {
	cfg := smallConfig()
	// Zero polynomials give 0 or NaN, and the periodic projection maps both
	// to 0.
	cfg.ColorPolyParams = Domain[float64]{0, 0}
	cfg.Projection = ProjectionPeriodic
	g := newTestGenerator(t, cfg, WithSink(&memSink{}), WithSeedSource(&counter{}))
	res, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if res.Accepted || res.Reason != RejectFlat {
		t.Fatalf("accepted %v reason %v, want a flat rejection", res.Accepted, res.Reason)
	}
	if res.Digest != "" {
		t.Errorf("Digest = %q for a rejected image, want empty", res.Digest)
	}
}

func TestGenerate_SeedSourceOnlyZeros(t *testing.T) {
	var calls int
	src := SeedFunc(func() uint32 {
		calls++
		return 0
	})
	sink := &memSink{}
	g := newTestGenerator(t, smallConfig(), WithSink(sink), WithSeedSource(src))
	if _, err := g.Generate(); !errors.Is(err, ErrNoSeed) {
		t.Errorf("Generate = %v, want ErrNoSeed", err)
	}
	if calls != maxSeedDraws {
		t.Errorf("seed source called %d times, want %d", calls, maxSeedDraws)
	}
	if len(sink.images) != 0 {
		t.Errorf("wrote %d images", len(sink.images))
	}
}

func TestGenerate_ZeroSeedRedrawn(t *testing.T) {
	draws := []uint32{0, 0, 5, 0, 9}
	src := SeedFunc(func() uint32 {
		v := draws[0]
		draws = draws[1:]
		return v
	})
	g := newTestGenerator(t, smallConfig(), WithSink(&memSink{}), WithSeedSource(src))
	res, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if res.FunctionSeed != 5 || res.ColorSeed != 9 {
		t.Errorf("seeds = %d, %d, want 5, 9", res.FunctionSeed, res.ColorSeed)
	}
}

func TestGenerate_AllPermutations(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	cfg.AllPermutations = true
	sink := FileSink{Dir: dir, Format: FormatBMP}
	g := newTestGenerator(t, cfg, WithSink(sink), WithSeedSource(&counter{}))

	res := generateAccepted(t, g)
	if len(res.Names) != 6 {
		t.Fatalf("Names = %v, want 6", res.Names)
	}
	base := cfg.WithSeeds(res.FunctionSeed, res.ColorSeed).FileName()
	for i, name := range res.Names {
		if want := base + "." + string(rune('1'+i)); name != want {
			t.Errorf("Names[%d] = %q, want %q", i, name, want)
		}
		if _, err := os.Stat(sink.Path(name)); err != nil {
			t.Errorf("permutation %d: %v", i+1, err)
		}
		if _, err := ParseFileName(sink.Path(name)); err != nil {
			t.Errorf("ParseFileName(%q): %v", sink.Path(name), err)
		}
	}
}

func TestGenerate_PermutationContents(t *testing.T) {
	cfg := smallConfig()
	cfg.AllPermutations = true
	sink := &memSink{}
	g := newTestGenerator(t, cfg, WithSink(sink), WithSeedSource(&counter{}))

	res := generateAccepted(t, g)
	src := g.Render(res.FunctionSeed, res.ColorSeed).Raster
	for i, p := range Permutations {
		got := sink.images[res.Names[i]]
		if got == nil {
			t.Fatalf("permutation %d not written", i+1)
		}
		if got.Digest() != src.Permute(p).Digest() {
			t.Errorf("permutation %d has the wrong channel order", i+1)
		}
	}
}

func TestGenerate_SinkError(t *testing.T) {
	errDiskFull := errors.New("disk full")
	for _, all := range []bool{false, true} {
		cfg := smallConfig()
		cfg.AllPermutations = all
		sink := SinkFunc(func(string, *Raster) error { return errDiskFull })
		g := newTestGenerator(t, cfg, WithSink(sink), WithSeedSource(&counter{}))

		var err error
		for range 500 {
			var res Result
			res, err = g.Generate()
			if res.Accepted {
				break
			}
		}
		if !errors.Is(err, errDiskFull) {
			t.Errorf("all permutations %v: Generate() = %v, want errDiskFull", all, err)
		}
	}
}

func TestGenerate_MissingDirectory(t *testing.T) {
	sink := FileSink{Dir: filepath.Join(t.TempDir(), "missing"), Format: FormatPNG}
	g := newTestGenerator(t, smallConfig(), WithSink(sink), WithSeedSource(&counter{}))
	for range 500 {
		res, err := g.Generate()
		if res.Accepted {
			if !errors.Is(err, os.ErrNotExist) {
				t.Errorf("Generate() = %v, want os.ErrNotExist", err)
			}
			return
		}
	}
	t.Fatal("no image accepted in 500 attempts")
}

func TestGenerator_RenderAfterClose(t *testing.T) {
	g := newTestGenerator(t, smallConfig(), WithWorkers(4))
	want := g.Render(11, 12).Raster.Digest()
	g.Close()
	if got := g.Render(11, 12).Raster.Digest(); got != want {
		t.Error("render after Close differs")
	}
}

func TestRender_NoNormalization(t *testing.T) {
	cfg := smallConfig()
	cfg.Normalize = false
	g := newTestGenerator(t, cfg)
	for seed := uint32(1); seed <= 20; seed++ {
		if img := g.Render(seed, seed); img.Normalized != [3]bool{} {
			t.Fatalf("seed %d: Normalized = %v with normalization off", seed, img.Normalized)
		}
	}
}
