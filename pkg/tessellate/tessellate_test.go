package tessellate_test

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/chazu/tfbe/pkg/hull"
	"github.com/chazu/tfbe/pkg/kernel"
	"github.com/chazu/tfbe/pkg/kernel/sdfx"
	"github.com/chazu/tfbe/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl32"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New(32)
}

func testOptions() tessellate.Options {
	return tessellate.Options{WallThickness: 1, WallHeight: 3, VoxelSize: 1}
}

func square(floorY int) *building.Building {
	return building.New(floorY, []geom.IVec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}})
}

func near(got, want, tol float32) bool {
	return float32(math.Abs(float64(got-want))) <= tol
}

func TestBuildingWalls(t *testing.T) {
	b := square(2)
	m, err := tessellate.Building(newKernel(), b, testOptions())
	if err != nil {
		t.Fatalf("Building failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if !strings.HasSuffix(m.Name, b.ID().String()) {
		t.Errorf("Name = %q, want the building id", m.Name)
	}

	// Walls span the outline grown by half a wall, from the floor up.
	lo, hi, _ := m.Bounds()
	const tol = 0.3
	wantLo := [3]float32{-0.5, 2, -0.5}
	wantHi := [3]float32{4.5, 5, 4.5}
	for i := range 3 {
		if !near(lo[i], wantLo[i], tol) || !near(hi[i], wantHi[i], tol) {
			t.Errorf("axis %d spans %.2f..%.2f, want %.2f..%.2f", i, lo[i], hi[i], wantLo[i], wantHi[i])
		}
	}

	// The room is hollow: no surface near its center column.
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		x, z := m.Vertices[i], m.Vertices[i+2]
		if math.Max(math.Abs(float64(x-2)), math.Abs(float64(z-2))) < 1.5-tol {
			t.Fatalf("vertex (%.2f, %.2f) inside the room", x, z)
		}
	}
}

func TestBuildingScale(t *testing.T) {
	opts := testOptions()
	opts.VoxelSize = 10
	m, err := tessellate.Building(newKernel(), square(0), opts)
	if err != nil {
		t.Fatalf("Building failed: %v", err)
	}
	lo, hi, _ := m.Bounds()
	if !near(lo[1], 0, 2) || !near(hi[1], 30, 2) {
		t.Errorf("height spans %.1f..%.1f, want 0..30", lo[1], hi[1])
	}
	if !near(hi[0], 45, 3) {
		t.Errorf("x extent ends at %.1f, want 45", hi[0])
	}
}

func TestBuildingFloor(t *testing.T) {
	opts := testOptions()
	opts.Floor = true
	m, err := tessellate.Building(newKernel(), square(0), opts)
	if err != nil {
		t.Fatalf("Building failed: %v", err)
	}
	lo, _, _ := m.Bounds()
	if !near(lo[1], -1, 0.3) {
		t.Errorf("floor bottom at %.2f, want -1", lo[1])
	}
}

func TestLevel(t *testing.T) {
	var corners []mgl32.Vec3
	for _, v := range [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}} {
		corners = append(corners, mgl32.Vec3(v))
	}
	h, ok := hull.FromPoints(corners)
	if !ok {
		t.Fatal("tetrahedron hull is degenerate")
	}

	meshes, err := tessellate.Level(newKernel(), []*building.Building{square(0), square(3)}, []*hull.ConvexHull{h}, testOptions())
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}
	if len(meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(meshes))
	}
	for _, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %q is empty", m.Name)
		}
	}
	if meshes[2].Name != "hull-0" {
		t.Errorf("hull mesh name = %q", meshes[2].Name)
	}
}

func TestLevelEmpty(t *testing.T) {
	meshes, err := tessellate.Level(newKernel(), nil, nil, testOptions())
	if err != nil || len(meshes) != 0 {
		t.Errorf("Level(nil) = %d meshes, %v", len(meshes), err)
	}
}
