package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/tfbe/pkg/geom"
	"github.com/chazu/tfbe/pkg/voxel"
	"github.com/go-gl/mathgl/mgl32"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms level script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: select-face -> select_face
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps an outline corner on the floor grid.
type sexpPoint struct {
	p geom.IVec2
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %d %d)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a world-space point.
type sexpVec3 struct {
	vec mgl32.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a grid coordinate. Floats are accepted only when integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toInts extracts exactly n integers from args.
func toInts(args []zygo.Sexp, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := toInt(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_red) and plain strings ("red").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// faceNormals maps face keywords to grid directions.
var faceNormals = map[string]geom.IVec3{
	"x":     geom.UnitX,
	"y":     geom.UnitY,
	"z":     geom.UnitZ,
	"neg-x": geom.NegUnitX,
	"neg-y": geom.NegUnitY,
	"neg-z": geom.NegUnitZ,
}

// toNormal converts a face keyword to the face's outward normal.
func toNormal(s zygo.Sexp) (geom.IVec3, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return geom.IVec3{}, fmt.Errorf("expected face keyword: %w", err)
	}
	n, ok := faceNormals[name]
	if !ok {
		return geom.IVec3{}, fmt.Errorf("invalid face %q, expected x, y, z, neg-x, neg-y or neg-z", name)
	}
	return n, nil
}

// toPoint extracts an outline corner from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.IVec2, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.IVec2{}, fmt.Errorf("expected pt, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl32.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flatten expands list and array arguments in place, so builtins accept
// both (f a b c) and (f (list a b c)).
func flatten(args []zygo.Sexp) ([]zygo.Sexp, error) {
	var out []zygo.Sexp
	for _, a := range args {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the level script builtins into a zygomys
// environment. Each editing builtin appends a Command to s and returns nil;
// pt and vec3 build values for building and hull.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *Script) {
	emit := func(c Command) (zygo.Sexp, error) {
		s.Commands = append(s.Commands, c)
		return zygo.SexpNull, nil
	}

	// nullary registers a builtin that takes no arguments.
	nullary := func(name string, op Op) {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes no arguments, got %d", op, len(args))
			}
			return emit(Command{Op: op})
		})
	}

	// -----------------------------------------------------------------------
	// (voxel 1 0 0 :material :red)
	// -----------------------------------------------------------------------
	env.AddFunction("voxel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		xyz, err := toInts(pa.positional, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("voxel: %w", err)
		}
		c := Command{Op: OpVoxel, Voxel: geom.IVec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}
		if v, ok := pa.kw["material"]; ok {
			m, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("voxel: material: %w", err)
			}
			c.Material = m
		}
		return emit(c)
	})

	// -----------------------------------------------------------------------
	// (erase 1 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("erase", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xyz, err := toInts(args, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("erase: %w", err)
		}
		return emit(Command{Op: OpErase, Voxel: geom.IVec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}})
	})

	// -----------------------------------------------------------------------
	// (shift 1 0 32) moves column x=1 z=0 up by 32 world units
	// -----------------------------------------------------------------------
	env.AddFunction("shift", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toInts(args, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shift: %w", err)
		}
		return emit(Command{Op: OpShift, Column: geom.IVec2{X: v[0], Y: v[1]}, Delta: v[2]})
	})

	nullary("commit", OpCommit)
	nullary("undo", OpUndo)
	nullary("deselect", OpDeselect)
	nullary("extrude", OpExtrude)
	nullary("depress", OpDepress)
	nullary("fill", OpFill)
	nullary("erase_selection", OpEraseSelection)

	// -----------------------------------------------------------------------
	// (symmetry :mirror-x)
	// -----------------------------------------------------------------------
	env.AddFunction("symmetry", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("symmetry requires exactly 1 argument, got %d", len(args))
		}
		kw, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("symmetry: %w", err)
		}
		sym, err := voxel.ParseSymmetry(kw)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("symmetry: %w", err)
		}
		return emit(Command{Op: OpSymmetry, Symmetry: sym})
	})

	// -----------------------------------------------------------------------
	// (material :blue)
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("material requires exactly 1 argument, got %d", len(args))
		}
		m, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		return emit(Command{Op: OpMaterial, Material: m})
	})

	// -----------------------------------------------------------------------
	// (select-face 0 0 0 :y)
	// -----------------------------------------------------------------------
	env.AddFunction("select_face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("select-face requires x y z and a face, got %d arguments", len(args))
		}
		xyz, err := toInts(args[:3], 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-face: %w", err)
		}
		n, err := toNormal(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-face: %w", err)
		}
		return emit(Command{Op: OpSelect, Voxel: geom.IVec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, Normal: n})
	})

	// -----------------------------------------------------------------------
	// (shift-selection 2)
	// -----------------------------------------------------------------------
	env.AddFunction("shift_selection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toInts(args, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shift-selection: %w", err)
		}
		return emit(Command{Op: OpShiftSelection, Delta: v[0]})
	})

	// -----------------------------------------------------------------------
	// (pt 4 0)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toInts(args, 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: %w", err)
		}
		return &sexpPoint{p: geom.IVec2{X: v[0], Y: v[1]}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var vec mgl32.Vec3
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			vec[i] = float32(f)
		}

		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (building :floor 0 :points (list (pt 0 0) (pt 4 0) (pt 4 4)))
	// (building (pt 0 0) (pt 4 0) (pt 4 4))
	// -----------------------------------------------------------------------
	env.AddFunction("building", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := Command{Op: OpBuilding}

		if v, ok := pa.kw["floor"]; ok {
			f, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("building: floor: %w", err)
			}
			c.FloorY = f
		}

		items := pa.positional
		if v, ok := pa.kw["points"]; ok {
			items = append([]zygo.Sexp{v}, items...)
		}
		items, err := flatten(items)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("building: points: %w", err)
		}

		seen := make(map[geom.IVec2]bool, len(items))
		for i, item := range items {
			p, err := toPoint(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("building: point %d: %w", i+1, err)
			}
			if seen[p] {
				return zygo.SexpNull, fmt.Errorf("building: point %s repeats", p)
			}
			seen[p] = true
			c.Points = append(c.Points, p)
		}
		if len(c.Points) < 3 {
			return zygo.SexpNull, fmt.Errorf("building requires at least 3 points, got %d", len(c.Points))
		}

		return emit(c)
	})

	// -----------------------------------------------------------------------
	// (hull (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0) (vec3 0 0 1))
	// -----------------------------------------------------------------------
	env.AddFunction("hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items, err := flatten(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hull: %w", err)
		}
		c := Command{Op: OpHull}
		for i, item := range items {
			v, err := toVec3(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hull: point %d: %w", i+1, err)
			}
			c.Hull = append(c.Hull, v)
		}
		if len(c.Hull) < 4 {
			return zygo.SexpNull, fmt.Errorf("hull requires at least 4 points, got %d", len(c.Hull))
		}
		return emit(c)
	})
}
