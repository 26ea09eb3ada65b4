// Package geom holds the planar and grid primitives shared by the building
// validator, the hull kernel and the voxel world. Everything here is a pure
// function of its arguments.
//
// Grid coordinates are integers. In 2D outlines the Y axis is "up", so a
// loop with positive signed area runs counter-clockwise.
package geom
