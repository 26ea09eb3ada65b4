// Package config loads editor settings from YAML.
//
// Every field is optional. Zero values are replaced with the built-in
// defaults after decoding, so a partial file only overrides what it names.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/voxel"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "TFBE_CONFIG"

// Config is the root of the configuration file.
type Config struct {
	Voxel    VoxelConfig    `yaml:"voxel"`
	Building BuildingConfig `yaml:"building"`
	Kernel   KernelConfig   `yaml:"kernel"`
	Engine   EngineConfig   `yaml:"engine"`
}

// VoxelConfig sets the voxel grid spacing, the mirror mode and how far a
// column may be shifted.
type VoxelConfig struct {
	Size           float32 `yaml:"size"`
	Symmetry       string  `yaml:"symmetry"`
	MaxColumnShift int     `yaml:"max_column_shift"`
}

// BuildingConfig holds wall dimensions in grid units.
type BuildingConfig struct {
	WallThickness        float64 `yaml:"wall_thickness"`
	MaxCornerExtension   float64 `yaml:"max_corner_extension"`
	MinInteriorThickness float64 `yaml:"min_interior_thickness"`
	WallHeight           float64 `yaml:"wall_height"`
	FloorY               int     `yaml:"floor_y"`
}

// KernelConfig tunes the geometry kernel.
type KernelConfig struct {
	// MeshCells is the marching cubes resolution along the longest axis.
	MeshCells int `yaml:"mesh_cells"`
}

// EngineConfig bounds script evaluation. Timeout caps a single run.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults used for omitted fields.
const (
	DefaultWallHeight = 3.0
	DefaultMeshCells  = 64
	DefaultTimeout    = 5 * time.Second
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML file. If path is empty it falls back to $TFBE_CONFIG,
// and with neither set it returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	voxels := voxel.DefaultConfig()
	if c.Voxel.Size <= 0 {
		c.Voxel.Size = voxels.VoxelSize
	}
	if c.Voxel.Symmetry == "" {
		c.Voxel.Symmetry = voxels.Symmetry.String()
	}
	if c.Voxel.MaxColumnShift <= 0 {
		c.Voxel.MaxColumnShift = int(c.Voxel.Size / 2)
	}

	params := building.DefaultParams()
	if c.Building.WallThickness <= 0 {
		c.Building.WallThickness = params.WallThickness
	}
	if c.Building.MaxCornerExtension <= 0 {
		c.Building.MaxCornerExtension = params.MaxCornerExtension
	}
	if c.Building.MinInteriorThickness <= 0 {
		c.Building.MinInteriorThickness = params.MinInteriorThickness
	}
	if c.Building.WallHeight <= 0 {
		c.Building.WallHeight = DefaultWallHeight
	}

	if c.Kernel.MeshCells <= 0 {
		c.Kernel.MeshCells = DefaultMeshCells
	}
	if c.Engine.Timeout <= 0 {
		c.Engine.Timeout = DefaultTimeout
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := voxel.ParseSymmetry(c.Voxel.Symmetry); err != nil {
		return err
	}
	if c.Building.WallThickness >= c.Building.MaxCornerExtension {
		return fmt.Errorf("config: wall_thickness %g must be below max_corner_extension %g",
			c.Building.WallThickness, c.Building.MaxCornerExtension)
	}
	return nil
}

// VoxelWorld converts the voxel section.
func (c *Config) VoxelWorld() voxel.Config {
	sym, err := voxel.ParseSymmetry(c.Voxel.Symmetry)
	if err != nil {
		sym = voxel.SymmetryNone
	}
	return voxel.Config{
		Symmetry:       sym,
		VoxelSize:      c.Voxel.Size,
		MaxColumnShift: c.Voxel.MaxColumnShift,
	}
}

// BuildingParams converts the building section.
func (c *Config) BuildingParams() building.Params {
	return building.Params{
		WallThickness:        c.Building.WallThickness,
		MaxCornerExtension:   c.Building.MaxCornerExtension,
		MinInteriorThickness: c.Building.MinInteriorThickness,
	}
}
