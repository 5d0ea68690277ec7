package dpcore

import "github.com/genalign/bandkit/internal/band"

// Directions is the full-band direction matrix produced by a sweep run
// with traceback enabled. Under the linear model each cell stores a single
// direction; under affine each cell additionally stores whether its H and V
// values were opened here or extended from the row/column above.
type Directions struct {
	geo    *band.Geometry
	affine bool
	lin    []Direction
	aff    []uint8
}

func newDirections(geo *band.Geometry, affine bool) *Directions {
	size := (geo.N() + 1) * geo.Width()
	d := &Directions{geo: geo, affine: affine}
	if affine {
		d.aff = make([]uint8, size)
	} else {
		d.lin = make([]Direction, size)
	}
	return d
}

func (d *Directions) index(i, j int) int {
	return i*d.geo.Width() + d.geo.Local(i, j)
}

func (d *Directions) setLinear(i, j int, dir Direction) {
	d.lin[d.index(i, j)] = dir
}

// GetLinear returns the stored direction for cell (i, j) of a linear-model
// direction matrix. Panics if this matrix is affine.
func (d *Directions) GetLinear(i, j int) Direction {
	return d.lin[d.index(i, j)]
}

func packAffine(m MSource, h, v GapSource) uint8 {
	return uint8(m) | uint8(h)<<2 | uint8(v)<<3
}

func unpackAffine(b uint8) (MSource, GapSource, GapSource) {
	return MSource(b & 0x3), GapSource((b >> 2) & 0x1), GapSource((b >> 3) & 0x1)
}

func (d *Directions) setAffine(i, j int, m MSource, h, v GapSource) {
	d.aff[d.index(i, j)] = packAffine(m, h, v)
}

// GetAffine returns the stored M source and the H/V open-or-extend state
// for cell (i, j) of an affine-model direction matrix. Panics if this
// matrix is linear.
func (d *Directions) GetAffine(i, j int) (MSource, GapSource, GapSource) {
	return unpackAffine(d.aff[d.index(i, j)])
}

// Affine reports whether this matrix was built for the affine gap model.
func (d *Directions) Affine() bool { return d.affine }

// Geometry returns the band geometry this matrix was built over.
func (d *Directions) Geometry() *band.Geometry { return d.geo }
