package building

import (
	"testing"

	"github.com/chazu/tfbe/pkg/geom"
)

func placeAll(t *testing.T, d *Draft, points []geom.IVec2) {
	t.Helper()
	for _, p := range points {
		if res, _ := d.Place(p); res != Placed {
			t.Fatalf("Place(%v) = %v, want placed", p, res)
		}
	}
}

func TestDraftClosesCounterClockwise(t *testing.T) {
	d := NewDraft(0, DefaultParams())
	placeAll(t, d, square)

	res, b := d.Place(square[0])
	if res != Closed {
		t.Fatalf("closing click = %v, want closed", res)
	}
	if b == nil {
		t.Fatal("nil building on close")
	}
	if geom.SignedPolygonArea(b.Points()) <= 0 {
		t.Error("closed building is not counter-clockwise")
	}
	if len(d.Points()) != 0 {
		t.Error("draft not reset after closing")
	}
}

func TestDraftReversesClockwise(t *testing.T) {
	params := DefaultParams()
	d := NewDraft(3, params)
	cw := pts(0, 0, 0, 4, 4, 4, 4, 0)
	placeAll(t, d, cw)

	res, b := d.Place(cw[0])
	if res != Closed {
		t.Fatalf("closing click = %v, want closed", res)
	}
	if b.FloorY() != 3 {
		t.Errorf("FloorY() = %d, want 3", b.FloorY())
	}
	if !b.IsValid(Validity{}, params) {
		t.Error("reversed outline is not valid")
	}

	w := NewWorld(params)
	if !w.InsertBuilding(b) {
		t.Error("world rejected a closed draft")
	}
}

func TestDraftRejectsAndClears(t *testing.T) {
	d := NewDraft(0, DefaultParams())
	placeAll(t, d, pts(0, 0, 4, 0))

	// Doubling back along the first edge is refused.
	if d.CanPlace(geom.IVec2{X: 2, Y: 0}) {
		t.Error("CanPlace accepted a point on an existing edge")
	}
	res, _ := d.Place(geom.IVec2{X: 2, Y: 0})
	if res != Rejected {
		t.Errorf("Place = %v, want rejected", res)
	}
	if len(d.Points()) != 0 {
		t.Error("draft not cleared after rejected click")
	}
}

func TestDraftResetKeepsEarlierPoints(t *testing.T) {
	d := NewDraft(0, DefaultParams())
	placeAll(t, d, pts(0, 0, 4, 0, 4, 4))
	before := d.Points()

	d.Reset()
	placeAll(t, d, pts(9, 9, 12, 9))

	want := pts(0, 0, 4, 0, 4, 4)
	for i, p := range want {
		if before[i] != p {
			t.Errorf("earlier Points()[%d] = %s, want %s", i, before[i], p)
		}
	}
	if got := d.Points(); len(got) != 2 || got[0] != (geom.IVec2{X: 9, Y: 9}) {
		t.Errorf("Points() after reset = %v", got)
	}
}

func TestDraftCanPlace(t *testing.T) {
	params := DefaultParams()
	tests := []struct {
		name   string
		placed []geom.IVec2
		next   geom.IVec2
		want   bool
	}{
		{"first point", nil, geom.IVec2{X: 1, Y: 1}, true},
		{"repeat first point", pts(1, 1), geom.IVec2{X: 1, Y: 1}, false},
		{"close a two point draft", pts(0, 0, 4, 0), geom.IVec2{}, false},
		{"repeat an inner point", pts(0, 0, 4, 0, 4, 4), geom.IVec2{X: 4, Y: 0}, false},
		{"cross first edge", pts(0, 0, 4, 0, 4, 4, 2, 4), geom.IVec2{X: 2, Y: -2}, false},
		{"needle corner", pts(0, 0, 10, 0), geom.IVec2{X: 0, Y: 1}, false},
		{"close square", pts(0, 0, 4, 0, 4, 4, 0, 4), geom.IVec2{}, true},
		{"extend", pts(0, 0, 4, 0), geom.IVec2{X: 4, Y: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft(0, params)
			d.points = append(d.points, tt.placed...)
			if got := d.CanPlace(tt.next); got != tt.want {
				t.Errorf("CanPlace(%v) = %v, want %v", tt.next, got, tt.want)
			}
		})
	}
}
