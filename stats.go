package genart

import (
	"math"
	"math/bits"

	"github.com/gogpu/genart/internal/parallel"
)

// Quality filter thresholds.
const (
	// minChannelRange: an image is flat when every channel spans fewer
	// levels than this.
	minChannelRange = 5

	// maxExtremeFraction is the largest tolerated fraction of near-white or
	// near-black pixels.
	maxExtremeFraction = 0.85

	whiteLevel = 240 // r, g and b above this count as near-white
	blackLevel = 15  // r, g and b below this count as near-black

	// minVariance: an image is rejected when all three channel variances
	// are below it.
	minVariance = 0.01

	// normalizeVariance: channels with a variance below it are rescaled.
	normalizeVariance = 0.001
)

// RejectReason tells why an image was discarded.
type RejectReason uint8

const (
	// NotRejected means the image passed the quality filter.
	NotRejected RejectReason = iota
	// RejectFlat means every channel spans fewer than five levels.
	RejectFlat
	// RejectWhite means more than 85% of the pixels are near-white.
	RejectWhite
	// RejectBlack means more than 85% of the pixels are near-black.
	RejectBlack
	// RejectLowVariance means every channel variance is below 0.01.
	RejectLowVariance
)

func (r RejectReason) String() string {
	switch r {
	case NotRejected:
		return "accepted"
	case RejectFlat:
		return "single color"
	case RejectWhite:
		return "mostly white"
	case RejectBlack:
		return "mostly black"
	case RejectLowVariance:
		return "low variance"
	default:
		return "unknown"
	}
}

// ChannelStats summarizes one color channel.
type ChannelStats struct {
	Sum      uint64
	Min, Max uint8
	Mean     float64

	// Variance is the population variance. It is only computed for images
	// that pass the fast checks; otherwise it is NaN.
	Variance float64
}

// Stats summarizes a raster for the quality filter.
type Stats struct {
	Pixels       int
	White, Black int
	Channels     [3]ChannelStats
}

// fastReject applies the checks that need no variance.
func (s *Stats) fastReject() RejectReason {
	flat := true
	for _, c := range s.Channels {
		if int(c.Max)-int(c.Min) >= minChannelRange {
			flat = false
		}
	}
	n := float64(s.Pixels)
	switch {
	case flat:
		return RejectFlat
	case float64(s.White) > n*maxExtremeFraction:
		return RejectWhite
	case float64(s.Black) > n*maxExtremeFraction:
		return RejectBlack
	}
	return NotRejected
}

// varianceReject rejects images whose channels are all near-constant.
func (s *Stats) varianceReject() RejectReason {
	for _, c := range s.Channels {
		if !(c.Variance < minVariance) {
			return NotRejected
		}
	}
	return RejectLowVariance
}

// Check runs the complete quality filter on fully computed stats.
func (s *Stats) Check() RejectReason {
	if r := s.fastReject(); r != NotRejected {
		return r
	}
	return s.varianceReject()
}

// partial accumulates the first-pass statistics of one band. Partials merge
// associatively.
type partial struct {
	sum          [3]uint64
	min, max     [3]uint8
	white, black int
}

func newPartial() partial {
	return partial{min: [3]uint8{255, 255, 255}}
}

func (p *partial) add(r, g, b uint8) {
	for c, v := range [3]uint8{r, g, b} {
		p.sum[c] += uint64(v)
		p.min[c] = min(p.min[c], v)
		p.max[c] = max(p.max[c], v)
	}
	if r > whiteLevel && g > whiteLevel && b > whiteLevel {
		p.white++
	}
	if r < blackLevel && g < blackLevel && b < blackLevel {
		p.black++
	}
}

func (p *partial) merge(q partial) {
	for c := range 3 {
		p.sum[c] += q.sum[c]
		p.min[c] = min(p.min[c], q.min[c])
		p.max[c] = max(p.max[c], q.max[c])
	}
	p.white += q.white
	p.black += q.black
}

// foldStats combines band partials in band order.
func foldStats(parts []partial, pixels int) Stats {
	total := newPartial()
	for _, p := range parts {
		total.merge(p)
	}
	s := Stats{Pixels: pixels, White: total.white, Black: total.black}
	for c := range 3 {
		s.Channels[c] = ChannelStats{
			Sum:      total.sum[c],
			Min:      total.min[c],
			Max:      total.max[c],
			Mean:     float64(total.sum[c]) / float64(pixels),
			Variance: math.NaN(),
		}
	}
	return s
}

// bandRunner runs fn for every band and returns when all are done.
type bandRunner func(bands []parallel.Band, fn func(parallel.Band))

func sequential(bands []parallel.Band, fn func(parallel.Band)) {
	for _, b := range bands {
		fn(b)
	}
}

// collectStats is the first pass over an existing raster.
func collectStats(run bandRunner, bands []parallel.Band, r *Raster) Stats {
	parts := make([]partial, len(bands))
	run(bands, func(b parallel.Band) {
		p := newPartial()
		for i := b.Y0 * r.width * 3; i < b.Y1*r.width*3; i += 3 {
			p.add(r.pix[i], r.pix[i+1], r.pix[i+2])
		}
		parts[b.Index] = p
	})
	return foldStats(parts, r.width*r.height)
}

// computeVariances is the second pass. Bands accumulate integer sums of
// squares, so the folded total is exact for any band layout and the
// variance is bit-identical however the rows are scheduled.
func computeVariances(run bandRunner, bands []parallel.Band, r *Raster, s *Stats) {
	parts := make([][3]uint64, len(bands))
	run(bands, func(b parallel.Band) {
		var acc [3]uint64
		for i := b.Y0 * r.width * 3; i < b.Y1*r.width*3; i += 3 {
			for c := range 3 {
				v := uint64(r.pix[i+c])
				acc[c] += v * v
			}
		}
		parts[b.Index] = acc
	})

	var squares [3]uint64
	for _, p := range parts {
		for c := range 3 {
			squares[c] += p[c]
		}
	}
	for c := range 3 {
		s.Channels[c].Variance = variance(uint64(s.Pixels), s.Channels[c].Sum, squares[c])
	}
}

// variance returns (n*squares - sum*sum) / n^2, the population variance of
// n values with the given sum and sum of squares. The numerator is formed
// in 128 bits, so only the final division rounds.
func variance(n, sum, squares uint64) float64 {
	if n == 0 {
		return math.NaN()
	}
	hi1, lo1 := bits.Mul64(n, squares)
	hi2, lo2 := bits.Mul64(sum, sum)
	lo, borrow := bits.Sub64(lo1, lo2, 0)
	hi, _ := bits.Sub64(hi1, hi2, borrow)
	num := float64(hi)*(1<<64) + float64(lo)
	nf := float64(n)
	return num / nf / nf
}

// normalize rescales every channel whose variance is below
// normalizeVariance to (v - mean) / (variance / 3). It reports which
// channels were rewritten.
func normalize(run bandRunner, bands []parallel.Band, r *Raster, s *Stats) [3]bool {
	var todo [3]bool
	need := false
	for c := range 3 {
		todo[c] = s.Channels[c].Variance < normalizeVariance
		need = need || todo[c]
	}
	if !need {
		return todo
	}

	run(bands, func(b parallel.Band) {
		for i := b.Y0 * r.width * 3; i < b.Y1*r.width*3; i += 3 {
			for c := range 3 {
				if !todo[c] {
					continue
				}
				ch := s.Channels[c]
				r.pix[i+c] = castByte((float64(r.pix[i+c]) - ch.Mean) / (ch.Variance / 3))
			}
		}
	})
	return todo
}

// castByte converts f to a byte by truncating toward zero and keeping the low
// eight bits. NaN, infinities and values beyond the int64 range give 0.
func castByte(f float64) uint8 {
	if math.IsNaN(f) || math.Abs(f) >= 1<<63 {
		return 0
	}
	return uint8(int64(f))
}

// MeasureRaster computes the complete statistics of r, sequentially.
func MeasureRaster(r *Raster) Stats {
	bands := parallel.Bands(r.height, parallel.BandRows)
	s := collectStats(sequential, bands, r)
	if s.Pixels > 0 {
		computeVariances(sequential, bands, r, &s)
	}
	return s
}
