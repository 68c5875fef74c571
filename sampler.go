package genart

import "context"

// MaxFailuresPerSuccess bounds the retry loop of RunSamples: sampling stops
// once failures exceed MaxFailuresPerSuccess * (accepted + 1).
const MaxFailuresPerSuccess = 20

// ImageGenerator produces one candidate image per call. *Generator
// implements it.
type ImageGenerator interface {
	Generate() (Result, error)
}

// Summary reports the outcome of RunSamples.
type Summary struct {
	Accepted int
	Rejected int

	// GaveUp is set when sampling stopped because too many candidates were
	// rejected.
	GaveUp bool
}

// RunSamples calls g.Generate until n images are accepted. Rejected images
// are retried; when rejections exceed MaxFailuresPerSuccess per accepted
// image (plus one) it stops and sets Summary.GaveUp. onResult, if not nil,
// sees every result, accepted or not.
//
// An error from Generate or a cancelled ctx stops sampling and is returned
// with the summary so far.
func RunSamples(ctx context.Context, g ImageGenerator, n int, onResult func(Result)) (Summary, error) {
	var sum Summary
	for sum.Accepted < n {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if sum.Rejected > MaxFailuresPerSuccess*(sum.Accepted+1) {
			sum.GaveUp = true
			Logger().Warn("genart: giving up", "accepted", sum.Accepted, "rejected", sum.Rejected)
			return sum, nil
		}

		res, err := g.Generate()
		if err != nil {
			return sum, err
		}
		if onResult != nil {
			onResult(res)
		}
		if res.Accepted {
			sum.Accepted++
		} else {
			sum.Rejected++
		}
	}
	return sum, nil
}
