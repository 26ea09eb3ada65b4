package voxel

import "fmt"

// Material identifies the surface a voxel is drawn with.
type Material string

// Palette is the set of shared materials the editor offers. It is passed
// to the world explicitly rather than looked up globally.
type Palette struct {
	Gray    Material
	Red     Material
	Blue    Material
	Outside Material
}

// DefaultPalette returns the editor's built-in materials.
func DefaultPalette() Palette {
	return Palette{
		Gray:    "gray",
		Red:     "red",
		Blue:    "blue",
		Outside: "outside",
	}
}

// Complement returns the material a mirrored edit receives: red and blue
// swap, everything else is unchanged.
func (p Palette) Complement(m Material) Material {
	switch m {
	case p.Red:
		return p.Blue
	case p.Blue:
		return p.Red
	default:
		return m
	}
}

// Lookup resolves a material by name.
func (p Palette) Lookup(name string) (Material, error) {
	for _, m := range []Material{p.Gray, p.Red, p.Blue, p.Outside} {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("voxel: unknown material %q", name)
}
