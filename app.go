package main

import (
	"cmp"
	"log"
	"maps"
	"slices"

	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/config"
	"github.com/chazu/tfbe/pkg/editor"
	"github.com/chazu/tfbe/pkg/engine"
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/chazu/tfbe/pkg/kernel"
	"github.com/chazu/tfbe/pkg/kernel/sdfx"
	"github.com/chazu/tfbe/pkg/tessellate"
	"github.com/chazu/tfbe/pkg/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// materialColors maps voxel materials to display colors.
var materialColors = map[voxel.Material]string{
	"gray":    "#8C8C8C",
	"red":     "#C0392B",
	"blue":    "#2E6FD9",
	"outside": "#5B7F3A",
}

// App is the editor backend. It owns one editing session and exposes it to
// a frontend through JSON-serializable results.
type App struct {
	cfg     *config.Config
	engine  *engine.Engine
	kernel  kernel.Kernel
	visuals *visuals
	editor  *editor.Editor
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// VoxelData is one drawn voxel.
type VoxelData struct {
	Coord    [3]int     `json:"coord"`
	Position [3]float32 `json:"position"`
	Material string     `json:"material"`
	Color    string     `json:"color"`
}

// MarkerData is one outline overlay marker. Points have From == To.
type MarkerData struct {
	From [3]float32 `json:"from"`
	To   [3]float32 `json:"to"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Voxels   []VoxelData     `json:"voxels"`
	Markers  []MarkerData    `json:"markers"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

func newResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Voxels:   []VoxelData{},
		Markers:  []MarkerData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

// NewApp creates an App with a fresh session. A nil cfg uses the defaults.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:    cfg,
		engine: engine.NewEngine(cfg.Engine.Timeout),
		kernel: sdfx.New(cfg.Kernel.MeshCells),
	}
	a.Reset()
	return a
}

// Reset discards the session and starts over with only the origin voxel.
func (a *App) Reset() {
	a.visuals = newVisuals()
	a.editor = editor.New(editor.Config{
		Voxel:    a.cfg.VoxelWorld(),
		Building: a.cfg.BuildingParams(),
		Palette:  voxel.DefaultPalette(),
		FloorY:   a.cfg.Building.FloorY,
	}, a.visuals, a.visuals)
}

// Editor returns the current session.
func (a *App) Editor() *editor.Editor { return a.editor }

// Evaluate runs a level script against the current session and returns the
// resulting scene. Scripts that fail to evaluate leave the session untouched.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	// Step 1: Evaluate the script into a command list.
	script, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Apply the commands to the session.
	for _, w := range script.Apply(a.editor) {
		log.Printf("Evaluate warning: %s", w)
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}

	a.scene(&result)
	return result
}

// Undo reverts the last action and returns the resulting scene.
func (a *App) Undo() EvalResult {
	result := newResult()
	if !a.editor.Undo() {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: "nothing to undo"})
	}
	a.scene(&result)
	return result
}

// PlaceOutlinePoint clicks grid cell (x, z) while drawing a building
// outline and returns the scene with the outline overlay.
func (a *App) PlaceOutlinePoint(x, z int) EvalResult {
	result := newResult()
	res, _ := a.editor.PlaceOutlinePoint(geom.IVec2{X: x, Y: z})
	if res == building.Rejected {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: "outline point rejected",
		})
	}
	a.editor.RefreshOutlinePreview()
	a.scene(&result)
	return result
}

// scene fills result with the voxels, overlay and tessellated meshes of
// the session.
func (a *App) scene(result *EvalResult) {
	result.Voxels = append(result.Voxels, a.visuals.voxelData()...)
	result.Markers = append(result.Markers, a.visuals.markerData()...)

	// Tessellate buildings and hulls into triangle meshes.
	meshes, err := tessellate.Level(a.kernel, a.editor.Buildings().Buildings(), a.editor.Hulls(), a.tessellateOptions())
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return
	}

	// Convert kernel meshes to the frontend MeshData format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
}

func (a *App) tessellateOptions() tessellate.Options {
	return tessellate.Options{
		WallThickness: a.cfg.Building.WallThickness,
		WallHeight:    a.cfg.Building.WallHeight,
		VoxelSize:     float64(a.cfg.Voxel.Size),
	}
}

// visuals is the scene registry. It draws voxels for the voxel world and
// markers for the outline overlay, handing out handles from one counter.
type visuals struct {
	next    voxel.Handle
	voxels  map[voxel.Handle]VoxelData
	markers map[voxel.Handle]MarkerData
}

func newVisuals() *visuals {
	return &visuals{
		voxels:  make(map[voxel.Handle]VoxelData),
		markers: make(map[voxel.Handle]MarkerData),
	}
}

func (v *visuals) handle() voxel.Handle {
	v.next++
	return v.next
}

func (v *visuals) SpawnVoxel(coord geom.IVec3, position mgl32.Vec3, material voxel.Material) voxel.Handle {
	h := v.handle()
	v.voxels[h] = VoxelData{
		Coord:    [3]int{coord.X, coord.Y, coord.Z},
		Position: position,
		Material: string(material),
		Color:    materialColors[material],
	}
	return h
}

func (v *visuals) SpawnMarker(_ editor.Marker, from, to mgl32.Vec3) voxel.Handle {
	h := v.handle()
	v.markers[h] = MarkerData{From: from, To: to}
	return h
}

func (v *visuals) Despawn(h voxel.Handle) {
	delete(v.voxels, h)
	delete(v.markers, h)
}

// voxelData lists drawn voxels ordered by coordinate.
func (v *visuals) voxelData() []VoxelData {
	out := slices.Collect(maps.Values(v.voxels))
	slices.SortFunc(out, func(a, b VoxelData) int {
		for i := range 3 {
			if c := cmp.Compare(a.Coord[i], b.Coord[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// markerData lists overlay markers in spawn order.
func (v *visuals) markerData() []MarkerData {
	handles := slices.Sorted(maps.Keys(v.markers))
	out := make([]MarkerData, len(handles))
	for i, h := range handles {
		out[i] = v.markers[h]
	}
	return out
}
