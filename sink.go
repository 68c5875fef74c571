package genart

import "path/filepath"

// Sink receives accepted images. name is the encoded file name without an
// extension, as produced by Config.FileName (plus the permutation suffix).
//
// Write may be called concurrently when all permutations are written.
type Sink interface {
	Write(name string, r *Raster) error
}

// FileSink writes each image to Dir/name.ext in Format. The directory must
// exist.
type FileSink struct {
	Dir    string
	Format Format
}

// Path returns the file a FileSink writes name to.
func (s FileSink) Path(name string) string {
	return filepath.Join(s.Dir, name+s.Format.Ext())
}

// Write encodes r and saves it.
func (s FileSink) Write(name string, r *Raster) error {
	return r.Save(s.Path(name), s.Format)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(name string, r *Raster) error

// Write calls f.
func (f SinkFunc) Write(name string, r *Raster) error {
	return f(name, r)
}
