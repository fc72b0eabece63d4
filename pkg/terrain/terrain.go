// Package terrain implements the static world the agents fly over: a
// procedural ground surface and the solid obstacles standing on it.
package terrain

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/core"
)

// Flat is featureless ground at a fixed height with no obstacles.
type Flat struct {
	Height float64
}

func (f Flat) HeightAt(x, y float64) float64 {
	return f.Height
}

func (f Flat) IsObstacle(p core.Vector3, radius float64) bool {
	return false
}

// Params tunes the procedural terrain, read once at initialization.
type Params struct {
	Seed int64

	// Ground surface: base height plus three noise octaves.
	BaseHeight      float64
	HillAmplitude   float64
	HillScale       float64
	DetailAmplitude float64
	DetailScale     float64
	RoughAmplitude  float64
	RoughScale      float64

	// Scattered tree obstacles.
	TreeCount     int
	TreeRadiusMin float64
	TreeRadiusMax float64
	TreeHeightMin float64
	TreeHeightMax float64
}

// DefaultParams returns the stock rolling-hills terrain.
func DefaultParams() Params {
	return Params{
		Seed:            1,
		BaseHeight:      10.0,
		HillAmplitude:   15.0,
		HillScale:       1.0 / 300.0,
		DetailAmplitude: 5.0,
		DetailScale:     1.0 / 80.0,
		RoughAmplitude:  2.0,
		RoughScale:      1.0 / 20.0,
		TreeCount:       40,
		TreeRadiusMin:   4.0,
		TreeRadiusMax:   10.0,
		TreeHeightMin:   15.0,
		TreeHeightMax:   35.0,
	}
}

// tree is a solid vertical cylinder rooted on the ground surface.
type tree struct {
	x, y   float64
	base   float64
	radius float64
	height float64
}

// Noise is procedurally generated ground with scattered tree obstacles.
// Heights come from layered simplex noise, so the surface is smooth,
// unbounded and needs no stored grid.
type Noise struct {
	params Params
	noise  opensimplex.Noise
	trees  []tree
}

// NewNoise builds the terrain for a world. Trees are planted inside the
// given bounds from the terrain seed, so the same seed grows the same
// forest.
func NewNoise(params Params, bounds core.Bounds) *Noise {
	n := &Noise{
		params: params,
		noise:  opensimplex.New(params.Seed),
	}
	n.plantTrees(bounds)
	return n
}

func (n *Noise) plantTrees(bounds core.Bounds) {
	rng := rand.New(rand.NewSource(n.params.Seed + 1))
	width := bounds.Max.X - bounds.Min.X
	depth := bounds.Max.Y - bounds.Min.Y

	for i := 0; i < n.params.TreeCount; i++ {
		x := bounds.Min.X + rng.Float64()*width
		y := bounds.Min.Y + rng.Float64()*depth
		radius := n.params.TreeRadiusMin + rng.Float64()*(n.params.TreeRadiusMax-n.params.TreeRadiusMin)
		height := n.params.TreeHeightMin + rng.Float64()*(n.params.TreeHeightMax-n.params.TreeHeightMin)
		n.trees = append(n.trees, tree{
			x:      x,
			y:      y,
			base:   n.HeightAt(x, y),
			radius: radius,
			height: height,
		})
	}
}

// HeightAt returns the ground elevation, never negative.
func (n *Noise) HeightAt(x, y float64) float64 {
	h := n.params.BaseHeight
	h += n.noise.Eval2(x*n.params.HillScale, y*n.params.HillScale) * n.params.HillAmplitude
	h += n.noise.Eval2(x*n.params.DetailScale+100, y*n.params.DetailScale+100) * n.params.DetailAmplitude
	h += n.noise.Eval2(x*n.params.RoughScale+200, y*n.params.RoughScale+200) * n.params.RoughAmplitude
	if h < 0 {
		h = 0
	}
	return h
}

// IsObstacle reports whether a sphere of the given radius at p intersects
// the ground or a tree.
func (n *Noise) IsObstacle(p core.Vector3, radius float64) bool {
	if p.Z-radius <= n.HeightAt(p.X, p.Y) {
		return true
	}

	for _, t := range n.trees {
		if p.Z-radius > t.base+t.height || p.Z+radius < t.base {
			continue
		}
		dx := p.X - t.x
		dy := p.Y - t.y
		reach := t.radius + radius
		if dx*dx+dy*dy < reach*reach {
			return true
		}
	}
	return false
}

// TreeCount returns how many trees were planted.
func (n *Noise) TreeCount() int {
	return len(n.trees)
}

// MaxGroundHeight is the upper bound the surface can reach, useful for
// validating spawn altitude bands.
func (n *Noise) MaxGroundHeight() float64 {
	return n.params.BaseHeight + n.params.HillAmplitude + n.params.DetailAmplitude + n.params.RoughAmplitude
}
