package usda

import (
	"strings"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/artic"
	"github.com/chazu/armature/pkg/compile"
	"github.com/chazu/armature/pkg/scene"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildHingeDoc compiles a two-part hinge model into a document.
func buildHingeDoc(t *testing.T) *scene.Document {
	t.Helper()
	a := artic.New("rig")

	base := artic.NewPart("base", "base")
	base.Category = artic.CategoryBase
	base.Mass = artic.ManualMass(5)
	basePose := sdf.Translate3d(v3.Vec{})
	base.RestPose = &basePose

	flap := artic.NewPart("flap", "flap")
	flap.Mobility = artic.MobilityRevolute
	flap.Mass = artic.AutoDensity(800)
	flapPose := sdf.Translate3d(v3.Vec{Z: 0.5})
	flap.RestPose = &flapPose
	com := v3.Vec{Z: 0.1}
	flap.CenterOfMass = &com
	flap.Geometry = &artic.GeometryInfo{
		VertexCount: 8, FaceCount: 12,
		BoundsMin: v3.Vec{X: -1, Y: -1, Z: -1},
		BoundsMax: v3.Vec{X: 1, Y: 1, Z: 1},
		Manifold:  true,
	}

	for _, p := range []*artic.Part{base, flap} {
		if err := a.AddPart(p); err != nil {
			t.Fatalf("AddPart: %v", err)
		}
	}

	j := artic.NewJoint("hinge", "base", "flap")
	j.Axis = v3.Vec{Y: 1}
	j.Anchor = v3.Vec{Z: 0.25}
	j.Limits = &artic.Limits{Lower: -90, Upper: 90}
	if err := a.AddJoint(j); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	doc, rep := compile.NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	return doc
}

// mustContain fails unless every want substring appears in s.
func mustContain(t *testing.T, s string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(s, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestWriteNilDocument(t *testing.T) {
	if _, err := String(nil); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := String(&scene.Document{}); err == nil {
		t.Error("expected error for document without root")
	}
}

func TestWriteHeader(t *testing.T) {
	out, err := String(buildHingeDoc(t))
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if !strings.HasPrefix(out, "#usda 1.0\n") {
		t.Errorf("output must start with the usda magic line, got %q", out[:20])
	}
	mustContain(t, out,
		`defaultPrim = "rig"`,
		`metersPerUnit = 1`,
		`upAxis = "Z"`,
	)
}

func TestWritePhysicsScene(t *testing.T) {
	out, err := String(buildHingeDoc(t))
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	mustContain(t, out,
		`def PhysicsScene "PhysicsScene"`,
		`vector3f physics:gravityDirection = (0, 0, -1)`,
		`float physics:gravityMagnitude = 9.81`,
	)
}

func TestWriteBodies(t *testing.T) {
	out, err := String(buildHingeDoc(t))
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	// Base: articulation root, kinematic, explicit mass.
	mustContain(t, out,
		`def Xform "base" (`,
		`"PhysicsArticulationRootAPI", "PhysicsRigidBodyAPI", "PhysicsMassAPI", "PhysicsCollisionAPI", "PhysicsMeshCollisionAPI", "PhysicsMaterialAPI"`,
		`bool physics:kinematicEnabled = 1`,
		`float physics:mass = 5`,
	)

	// Flap: dynamic, density, center of mass, extent from geometry.
	mustContain(t, out,
		`def Xform "flap" (`,
		`float physics:density = 800`,
		`point3f physics:centerOfMass = (0, 0, 0.1)`,
		`uniform token physics:approximation = "convexHull"`,
		`float physics:staticFriction = 0.5`,
		`float physics:dynamicFriction = 0.5`,
		`float physics:restitution = 0`,
		`float3[] extent = [(-1, -1, -1), (1, 1, 1)]`,
	)

	// The explicit-mass body must not also carry a density.
	baseStart := strings.Index(out, `def Xform "base" (`)
	flapStart := strings.Index(out, `def Xform "flap" (`)
	if baseStart < 0 || flapStart < 0 || baseStart > flapStart {
		t.Fatal("expected base before flap in output")
	}
	if strings.Contains(out[baseStart:flapStart], "physics:density") {
		t.Error("explicit-mass body must not emit a density")
	}
}

func TestWriteJoint(t *testing.T) {
	out, err := String(buildHingeDoc(t))
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	mustContain(t, out,
		`def Scope "Joints"`,
		`def PhysicsRevoluteJoint "hinge"`,
		`rel physics:body0 = </rig/base>`,
		`rel physics:body1 = </rig/flap>`,
		`uniform token physics:axis = "Y"`,
		`point3f physics:localPos0 = (0, 0, 0.75)`,
		`point3f physics:localPos1 = (0, 0, 0.25)`,
		`quatf physics:localRot0 = (1, 0, 0, 0)`,
		`float physics:lowerLimit = -90`,
		`float physics:upperLimit = 90`,
		`bool physics:collisionEnabled = 0`,
		`uniform token drive:angular:physics:type = "force"`,
		`float drive:angular:physics:stiffness = 1000`,
		`float drive:angular:physics:damping = 100`,
		`float drive:angular:physics:maxForce = 1000`,
		`float drive:angular:physics:targetPosition = 0`,
	)
}

func TestWriteDeterministic(t *testing.T) {
	doc := buildHingeDoc(t)

	first, err := String(doc)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := String(doc)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("iteration %d: output differs between identical writes", i)
		}
	}
}

func TestWriteBalancedBraces(t *testing.T) {
	out, err := String(buildHingeDoc(t))
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if open, closed := strings.Count(out, "{"), strings.Count(out, "}"); open != closed {
		t.Errorf("unbalanced braces: %d open, %d close", open, closed)
	}
}

func TestAxisToken(t *testing.T) {
	tests := []struct {
		name string
		axis v3.Vec
		want string
	}{
		{name: "pure X", axis: v3.Vec{X: 1}, want: "X"},
		{name: "pure Y", axis: v3.Vec{Y: 1}, want: "Y"},
		{name: "pure Z", axis: v3.Vec{Z: 1}, want: "Z"},
		{name: "negative dominant", axis: v3.Vec{Y: -1, X: 0.2}, want: "Y"},
		{name: "diagonal picks dominant", axis: v3.Vec{X: 0.3, Y: 0.1, Z: 0.9}, want: "Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := axisToken(tt.axis); got != tt.want {
				t.Errorf("axisToken(%v) = %q, want %q", tt.axis, got, tt.want)
			}
		})
	}
}
