// Package genart generates abstract images from random mathematical
// functions.
//
// # Overview
//
// Every image is fully described by a [Config] and two 32-bit seeds. The
// function seed drives a random expression tree f(x, y) built from a fixed
// registry of unary and binary operators; the color seed drives three random
// polynomials that map each value of f to red, green and blue. The plane
// region given by Config.X and Config.Y is sampled at Config.Resolution
// pixels per unit.
//
// # Quick Start
//
//	cfg := genart.DefaultConfig()
//	g, err := genart.NewGenerator(cfg, genart.WithSink(genart.FileSink{Dir: "images"}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Close()
//
//	sum, err := genart.RunSamples(ctx, g, 10, nil)
//
// # Reproducibility
//
// The output file name encodes the seeds and every parameter that affects
// the image (see [Config.FileName]); [ParseFileName] recovers the Config so
// an image can be rendered again, typically at a higher resolution. The
// random draws are strictly sequential and the parallel reductions are
// folded in a fixed order, so rendering is bit-identical for any number of
// workers.
//
// # Quality Filter
//
// Images that are nearly a single color, mostly white, mostly black or of
// very low variance are rejected and not written. Channels with a tiny
// variance are rescaled when Config.Normalize is set.
//
// # Logging
//
// genart is silent by default. Use [SetLogger] to receive per-image
// diagnostics through log/slog.
package genart
