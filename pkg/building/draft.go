package building

import (
	"slices"

	"github.com/chazu/tfbe/pkg/geom"
)

// PlaceResult describes what a click did to a Draft.
type PlaceResult int

const (
	Placed   PlaceResult = iota // point appended to the draft
	Closed                      // loop closed into a building
	Rejected                    // point was invalid; the draft was cleared
)

func (r PlaceResult) String() string {
	switch r {
	case Placed:
		return "placed"
	case Closed:
		return "closed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Draft is an outline being drawn point by point. Clicking the first point
// again closes the loop.
type Draft struct {
	FloorY int
	params Params
	points []geom.IVec2
}

// NewDraft starts an empty outline at the given floor height.
func NewDraft(floorY int, params Params) *Draft {
	return &Draft{FloorY: floorY, params: params}
}

// Points returns the placed points in order.
func (d *Draft) Points() []geom.IVec2 { return d.points }

// Reset discards all placed points.
func (d *Draft) Reset() { d.points = nil }

// CanPlace reports whether clicking p would be accepted, either as a new
// point or as the closing click on the first point.
func (d *Draft) CanPlace(p geom.IVec2) bool {
	pts := d.points
	n := len(pts)
	minGap := float32(d.params.MinInteriorThickness)

	switch {
	case n == 0:
		return true
	case n == 1:
		return p != pts[0]
	case n == 2 && p == pts[0]:
		return false
	}

	closing := p == pts[0]
	if closing && IsCornerTooSharp(Corner{A: pts[1], Pivot: pts[0], B: pts[n-1]}, d.params) {
		return false
	}
	if !closing && slices.Contains(pts, p) {
		return false
	}

	last := pts[n-1]
	newLine := geom.Seg(last, p)

	// Existing points must keep clear of the new edge.
	for _, q := range pts {
		if q == last || q == p {
			continue
		}
		near := geom.ClosestPointOnSegment(q.Vec2(), newLine)
		if near.Sub(q.Vec2()).Len() < minGap {
			return false
		}
	}

	// The new point must keep clear of existing edges, and the new edge
	// must not cross any edge other than its neighbour.
	for i := 0; i < n-1; i++ {
		if pts[i] == p || pts[i+1] == p {
			continue
		}
		existing := geom.Seg(pts[i], pts[i+1])
		near := geom.ClosestPointOnSegment(p.Vec2(), existing)
		if near.Sub(p.Vec2()).Len() < minGap {
			return false
		}
		if i+2 < n && geom.SegmentsCross(existing, newLine) {
			return false
		}
	}

	return !IsCornerTooSharp(Corner{A: pts[n-2], Pivot: last, B: p}, d.params)
}

// Place handles a click at p. A valid click on the first point of a draft
// with at least three points closes it: the outline is reversed if it was
// drawn clockwise and returned as a new Building. Any other valid click
// appends p. An invalid click clears the draft.
func (d *Draft) Place(p geom.IVec2) (PlaceResult, *Building) {
	valid := d.CanPlace(p)
	switch {
	case valid && len(d.points) >= 3 && p == d.points[0]:
		outline := slices.Clone(d.points)
		if geom.SignedPolygonArea(outline) < 0 {
			slices.Reverse(outline)
		}
		d.Reset()
		return Closed, New(d.FloorY, outline)
	case valid:
		d.points = append(d.points, p)
		return Placed, nil
	default:
		d.Reset()
		return Rejected, nil
	}
}
