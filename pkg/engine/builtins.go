package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/armature/pkg/artic"
	"github.com/chazu/armature/pkg/mesh"
)

// defaultModelName names models whose source never calls (model ...).
const defaultModelName = "robot"

// geomKernel meshes the primitive-solid builtins. The kernel is stateless.
var geomKernel = mesh.New()

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Armature Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: max-force -> max_force
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

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpMaterial wraps an artic.Material so it can be passed between builtins.
type sexpMaterial struct {
	mat artic.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :static-friction %.2f :dynamic-friction %.2f :restitution %.2f)",
		m.mat.StaticFriction, m.mat.DynamicFriction, m.mat.Restitution)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpGeometry wraps a mesh summary so it can be attached to a part.
type sexpGeometry struct {
	info artic.GeometryInfo
}

func (g *sexpGeometry) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(geometry :vertices %d :faces %d)", g.info.VertexCount, g.info.FaceCount)
}
func (g *sexpGeometry) Type() *zygo.RegisteredType { return nil }

// sexpPartRef wraps an artic.PartID so parts can be referenced by value
// in later joint declarations.
type sexpPartRef struct {
	id artic.PartID
}

func (p *sexpPartRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", string(p.id))
}
func (p *sexpPartRef) Type() *zygo.RegisteredType { return nil }

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
				// Keyword at end with no value; treat as flag with nil.
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

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_base) and plain strings ("base").
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

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a Material from a sexpMaterial.
func toMaterial(s zygo.Sexp) (artic.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.mat, nil
	}
	return artic.Material{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toPartID extracts a part identifier from either a part reference or a
// plain string. String references are checked against the registry so a
// typo fails at the joint form instead of surfacing later as a dangling
// edge.
func toPartID(model *artic.Articulation, s zygo.Sexp) (artic.PartID, error) {
	if ref, ok := s.(*sexpPartRef); ok {
		return ref.id, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected part reference or part id string: %w", err)
	}
	id := artic.PartID(name)
	if !model.Parts.Has(id) {
		return "", fmt.Errorf("no part with id %q", name)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Rest pose construction
// ---------------------------------------------------------------------------

// restPose builds a local-to-world transform from a translation and Euler
// rotation angles in degrees, applied Z then Y then X.
func restPose(at, rotate v3.Vec) sdf.M44 {
	xRad := rotate.X * math.Pi / 180.0
	yRad := rotate.Y * math.Pi / 180.0
	zRad := rotate.Z * math.Pi / 180.0

	rot := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return sdf.Translate3d(at).Mul(rot)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all Armature DSL builtins into a zygomys
// environment. The builtins operate on the provided Articulation,
// populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, model *artic.Articulation) {

	// -----------------------------------------------------------------------
	// (model "gripper")
	// -----------------------------------------------------------------------
	env.AddFunction("model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("model requires a name argument")
		}
		modelName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("model: name: %w", err)
		}
		model.Name = modelName
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (material :static-friction 0.6 :dynamic-friction 0.4 :restitution 0.1)
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		mat := artic.DefaultMaterial()

		if v, ok := pa.kw["static-friction"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: static-friction: %w", err)
			}
			mat.StaticFriction = f
		}
		if v, ok := pa.kw["dynamic-friction"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: dynamic-friction: %w", err)
			}
			mat.DynamicFriction = f
		}
		if v, ok := pa.kw["restitution"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: restitution: %w", err)
			}
			mat.Restitution = f
		}

		return &sexpMaterial{mat: mat}, nil
	})

	// -----------------------------------------------------------------------
	// (geometry :vertices 1200 :faces 2400 :manifold true
	//           :bounds-min (vec3 0 0 0) :bounds-max (vec3 1 1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("geometry", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		info := artic.GeometryInfo{}

		if v, ok := pa.kw["vertices"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("geometry: vertices: %w", err)
			}
			info.VertexCount = n
		}
		if v, ok := pa.kw["faces"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("geometry: faces: %w", err)
			}
			info.FaceCount = n
		}
		if v, ok := pa.kw["manifold"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("geometry: manifold: %w", err)
			}
			info.Manifold = b
		}
		if v, ok := pa.kw["bounds-min"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("geometry: bounds-min: %w", err)
			}
			info.BoundsMin = vec
		}
		if v, ok := pa.kw["bounds-max"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("geometry: bounds-max: %w", err)
			}
			info.BoundsMax = vec
		}

		return &sexpGeometry{info: info}, nil
	})

	// -----------------------------------------------------------------------
	// (box 0.4 0.2 0.1), (cylinder 0.5 0.05), (sphere 0.1)
	//
	// Primitive solids meshed through the geometry kernel; each yields the
	// same summary value a (geometry ...) form would, with the counts,
	// bounds and manifold flag measured instead of declared.
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires 3 dimensions, got %d", len(args))
		}
		var dims [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			dims[i] = f
		}
		solid, err := geomKernel.Box(dims[0], dims[1], dims[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{info: mesh.Summarize(geomKernel.ToMesh(solid))}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires height and radius, got %d args", len(args))
		}
		height, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		radius, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		solid, err := geomKernel.Cylinder(height, radius)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{info: mesh.Summarize(geomKernel.ToMesh(solid))}, nil
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius, got %d args", len(args))
		}
		radius, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		solid, err := geomKernel.Sphere(radius)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{info: mesh.Summarize(geomKernel.ToMesh(solid))}, nil
	})

	// -----------------------------------------------------------------------
	// (part "chassis" :name "Chassis" :category :base :mass 12.5
	//       :collision :convex-hull :material m
	//       :at (vec3 0 0 0) :rotate (vec3 0 0 90))
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires an id argument")
		}
		id, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: id: %w", err)
		}

		p := artic.NewPart(artic.PartID(id), id)

		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: name: %w", id, err)
			}
			p.Name = s
		}
		if v, ok := pa.kw["category"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: category: %w", id, err)
			}
			cat, err := artic.ParseCategory(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: %w", id, err)
			}
			p.Category = cat
		}
		if v, ok := pa.kw["mobility"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: mobility: %w", id, err)
			}
			mob, err := artic.ParseMobility(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: %w", id, err)
			}
			p.Mobility = mob
		}

		_, hasMass := pa.kw["mass"]
		_, hasDensity := pa.kw["density"]
		if hasMass && hasDensity {
			return zygo.SexpNull, fmt.Errorf("part %q: :mass and :density are mutually exclusive", id)
		}
		if v, ok := pa.kw["mass"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: mass: %w", id, err)
			}
			p.Mass = artic.ManualMass(f)
		}
		if v, ok := pa.kw["density"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: density: %w", id, err)
			}
			p.Mass = artic.AutoDensity(f)
		}

		if v, ok := pa.kw["collision"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: collision: %w", id, err)
			}
			approx, err := artic.ParseCollisionApprox(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: %w", id, err)
			}
			p.Collision = approx
		}
		if v, ok := pa.kw["material"]; ok {
			mat, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: material: %w", id, err)
			}
			p.Material = mat
		}
		if v, ok := pa.kw["com"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: com: %w", id, err)
			}
			p.CenterOfMass = &vec
		}
		if v, ok := pa.kw["geometry"]; ok {
			g, ok := v.(*sexpGeometry)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("part %q: geometry: expected geometry expression, got %T", id, v)
			}
			info := g.info
			p.Geometry = &info
		}

		// Parts declared in source always carry a rest pose: identity
		// unless placed with :at / :rotate.
		at := v3.Vec{}
		rotate := v3.Vec{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: at: %w", id, err)
			}
			at = vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: rotate: %w", id, err)
			}
			rotate = vec
		}
		pose := restPose(at, rotate)
		p.RestPose = &pose

		if err := model.AddPart(p); err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", id, err)
		}

		return &sexpPartRef{id: p.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (joint "hinge" :parent "chassis" :child "arm" :type :revolute
	//        :axis (vec3 0 1 0) :anchor (vec3 0 0 0.2)
	//        :lower -90 :upper 90
	//        :drive :position :stiffness 500 :damping 50 :max-force 200)
	// -----------------------------------------------------------------------
	env.AddFunction("joint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		jointName := ""
		if len(pa.positional) > 0 {
			s, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint: name: %w", err)
			}
			jointName = s
		}

		pv, ok := pa.kw["parent"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("joint %q: :parent is required", jointName)
		}
		parent, err := toPartID(model, pv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("joint %q: parent: %w", jointName, err)
		}
		cv, ok := pa.kw["child"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("joint %q: :child is required", jointName)
		}
		child, err := toPartID(model, cv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("joint %q: child: %w", jointName, err)
		}

		j := artic.NewJoint(jointName, parent, child)

		if v, ok := pa.kw["type"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: type: %w", jointName, err)
			}
			jt, err := artic.ParseJointType(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: %w", jointName, err)
			}
			j.Type = jt
		}
		if v, ok := pa.kw["axis"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: axis: %w", jointName, err)
			}
			j.Axis = vec
		}
		if v, ok := pa.kw["anchor"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: anchor: %w", jointName, err)
			}
			j.Anchor = vec
		}

		if _, ok := pa.kw["unlimited"]; ok {
			j.Limits = nil
		}
		if v, ok := pa.kw["lower"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: lower: %w", jointName, err)
			}
			if j.Limits == nil {
				j.Limits = &artic.Limits{Lower: -180, Upper: 180}
			}
			j.Limits.Lower = f
		}
		if v, ok := pa.kw["upper"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: upper: %w", jointName, err)
			}
			if j.Limits == nil {
				j.Limits = &artic.Limits{Lower: -180, Upper: 180}
			}
			j.Limits.Upper = f
		}

		if v, ok := pa.kw["drive"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: drive: %w", jointName, err)
			}
			dt, err := artic.ParseDriveType(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: %w", jointName, err)
			}
			j.Drive.Type = dt
		}
		if v, ok := pa.kw["stiffness"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: stiffness: %w", jointName, err)
			}
			j.Drive.Stiffness = f
		}
		if v, ok := pa.kw["damping"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: damping: %w", jointName, err)
			}
			j.Drive.Damping = f
		}
		if v, ok := pa.kw["max-force"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: max-force: %w", jointName, err)
			}
			j.Drive.MaxForce = f
		}

		if v, ok := pa.kw["collide-with-parent"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("joint %q: collide-with-parent: %w", jointName, err)
			}
			j.DisableParentCollision = !b
		}

		if err := model.AddJoint(j); err != nil {
			return zygo.SexpNull, fmt.Errorf("joint %q: %w", jointName, err)
		}

		return zygo.SexpNull, nil
	})
}
