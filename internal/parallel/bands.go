package parallel

// BandRows is the default number of pixel rows per band.
const BandRows = 8

// Band is the half-open row range [Y0, Y1) of an image. Index is the band's
// position from the top, starting at 0.
type Band struct {
	Index  int
	Y0, Y1 int
}

// Rows returns the number of rows in b.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits height rows into consecutive bands of rows rows each. The last
// band may be shorter. A non-positive rows value selects BandRows.
func Bands(height, rows int) []Band {
	if height <= 0 {
		return nil
	}
	if rows <= 0 {
		rows = BandRows
	}
	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{Index: len(bands), Y0: y, Y1: min(y+rows, height)})
	}
	return bands
}
