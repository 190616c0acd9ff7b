package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/config"
)

// Distributor spreads spawn points over an N x N grid covering the
// horizontal square [-boundary, boundary].
type Distributor struct {
	boundary  float64
	divisions int
	cellSize  float64
	jitter    float64
	rng       *rand.Rand

	retries int
}

// NewDistributor creates a distributor. jitter is the fraction of a cell a
// point may be displaced from the cell center.
func NewDistributor(boundary float64, divisions int, jitter float64, rng *rand.Rand) *Distributor {
	if divisions < 1 {
		divisions = 1
	}
	return &Distributor{
		boundary:  boundary,
		divisions: divisions,
		cellSize:  2 * boundary / float64(divisions),
		jitter:    clamp(jitter, 0, 1),
		rng:       rng,
	}
}

// Cells returns the number of grid cells.
func (d *Distributor) Cells() int { return d.divisions * d.divisions }

// CellSize returns the edge length of one cell.
func (d *Distributor) CellSize() float64 { return d.cellSize }

// Cell maps a flat cell index to its column and row.
func (d *Distributor) Cell(i int) (col, row int) {
	return i % d.divisions, i / d.divisions
}

// CellCenter returns the center of a cell at y = 0.
func (d *Distributor) CellCenter(col, row int) r3.Vec {
	return r3.Vec{
		X: -d.boundary + (float64(col)+0.5)*d.cellSize,
		Z: -d.boundary + (float64(row)+0.5)*d.cellSize,
	}
}

// Place picks a point in a random cell with y uniform in depth. If the point
// lands within minDist of the vessel a second cell is drawn once; the retry
// result is kept even if it is also close.
func (d *Distributor) Place(depth config.RangeConfig, vessel r3.Vec, minDist float64) r3.Vec {
	p := d.sample(depth)
	if minDist > 0 && r3.Norm(r3.Sub(p, vessel)) < minDist {
		d.retries++
		p = d.sample(depth)
	}
	return p
}

// Retries returns how many placements needed the second draw.
func (d *Distributor) Retries() int { return d.retries }

func (d *Distributor) sample(depth config.RangeConfig) r3.Vec {
	col, row := d.Cell(d.rng.Intn(d.Cells()))
	p := d.CellCenter(col, row)
	spread := d.cellSize * d.jitter
	p.X += (d.rng.Float64() - 0.5) * spread
	p.Z += (d.rng.Float64() - 0.5) * spread
	p.Y = draw(d.rng, depth)
	return p
}
