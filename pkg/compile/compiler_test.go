package compile

import (
	"reflect"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/artic"
	"github.com/chazu/armature/pkg/scene"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestPart creates a part with a pure-translation rest pose.
func newTestPart(id string, category artic.Category, at v3.Vec) *artic.Part {
	p := artic.NewPart(artic.PartID(id), id)
	p.Category = category
	if category != artic.CategoryBase {
		p.Mobility = artic.MobilityRevolute
	}
	pose := sdf.Translate3d(at)
	p.RestPose = &pose
	return p
}

// buildArmModel creates a grounded chain base -> upper -> fore with the
// links stacked along Z.
func buildArmModel(t *testing.T) *artic.Articulation {
	t.Helper()
	a := artic.New("arm")

	for _, p := range []*artic.Part{
		newTestPart("base", artic.CategoryBase, v3.Vec{}),
		newTestPart("upper", artic.CategoryLink, v3.Vec{Z: 0.5}),
		newTestPart("fore", artic.CategoryLink, v3.Vec{Z: 1.0}),
	} {
		if err := a.AddPart(p); err != nil {
			t.Fatalf("AddPart(%s): %v", p.ID, err)
		}
	}

	shoulder := artic.NewJoint("shoulder", "base", "upper")
	shoulder.Anchor = v3.Vec{Z: 0.2}
	elbow := artic.NewJoint("elbow", "upper", "fore")
	elbow.Anchor = v3.Vec{Z: 0.2}
	for _, j := range []*artic.Joint{shoulder, elbow} {
		if err := a.AddJoint(j); err != nil {
			t.Fatalf("AddJoint(%s): %v", j.Name, err)
		}
	}
	return a
}

func hasReportFinding(findings []artic.Finding, code string) bool {
	for _, f := range findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

func vecClose(a, b v3.Vec) bool {
	const eps = 1e-9
	d := a.Sub(b)
	return d.Length() < eps
}

// ---------------------------------------------------------------------------
// Whole-model compilation
// ---------------------------------------------------------------------------

func TestCompileGroundedChain(t *testing.T) {
	a := buildArmModel(t)

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("expected document, got errors: %v", rep.Errors)
	}
	if !rep.Valid() {
		t.Fatalf("unexpected errors: %v", rep.Errors)
	}

	root := doc.Root
	if root.Name != "arm" {
		t.Errorf("root name = %q, want arm", root.Name)
	}
	if root.Stage == nil || root.Stage.UpAxis != "Z" || root.Stage.MetersPerUnit != 1.0 {
		t.Errorf("stage block = %+v, want Z / 1.0", root.Stage)
	}

	ps := root.Child("PhysicsScene")
	if ps == nil || ps.Physics == nil {
		t.Fatal("expected PhysicsScene node")
	}
	if !vecClose(ps.Physics.GravityDirection, v3.Vec{Z: -1}) || ps.Physics.GravityMagnitude != 9.81 {
		t.Errorf("physics scene = %+v, want -Z gravity at 9.81", ps.Physics)
	}

	base := root.Child("base")
	if base == nil {
		t.Fatal("expected base body node")
	}
	if !base.ArticulationRoot {
		t.Error("base of a jointed component must be the articulation root")
	}
	if base.RigidBody == nil || !base.RigidBody.Kinematic {
		t.Error("base must be kinematic")
	}

	for _, name := range []string{"upper", "fore"} {
		n := root.Child(name)
		if n == nil {
			t.Fatalf("expected %s body node", name)
		}
		if n.ArticulationRoot {
			t.Errorf("%s must not be an articulation root", name)
		}
		if n.RigidBody == nil || n.RigidBody.Kinematic {
			t.Errorf("%s must be a dynamic body", name)
		}
	}

	joints := root.Child("Joints")
	if joints == nil {
		t.Fatal("expected Joints scope")
	}
	if len(joints.Children) != 2 {
		t.Fatalf("expected 2 joint nodes, got %d", len(joints.Children))
	}

	shoulder := joints.Child("shoulder")
	if shoulder == nil || shoulder.Joint == nil {
		t.Fatal("expected shoulder joint node")
	}
	jb := shoulder.Joint
	if jb.Kind != scene.JointKindRevolute {
		t.Errorf("shoulder kind = %s, want revolute", jb.Kind)
	}
	if jb.Body0 != "base" || jb.Body1 != "upper" {
		t.Errorf("shoulder bodies = %q/%q, want base/upper", jb.Body0, jb.Body1)
	}
	// Child-local anchor passes through; parent-local carries the same
	// world point back through the parent's inverse rest pose.
	if !vecClose(jb.Local1, v3.Vec{Z: 0.2}) {
		t.Errorf("shoulder local1 = %v, want (0 0 0.2)", jb.Local1)
	}
	if !vecClose(jb.Local0, v3.Vec{Z: 0.7}) {
		t.Errorf("shoulder local0 = %v, want (0 0 0.7)", jb.Local0)
	}
	if jb.Limits == nil || jb.Limits.Lower != -180 || jb.Limits.Upper != 180 {
		t.Errorf("shoulder limits = %+v, want ±180", jb.Limits)
	}
	if jb.Drive == nil || jb.Drive.Kind != scene.DriveAngular || jb.Drive.Control != "position" {
		t.Errorf("shoulder drive = %+v, want angular position drive", jb.Drive)
	}
	if !jb.FilterCollision {
		t.Error("shoulder must filter parent collision by default")
	}
}

func TestCompileValidationErrorsBlockDocument(t *testing.T) {
	a := artic.New("looped")
	for _, id := range []string{"a", "b", "c"} {
		cat := artic.CategoryLink
		if id == "a" {
			cat = artic.CategoryBase
		}
		if err := a.AddPart(newTestPart(id, cat, v3.Vec{})); err != nil {
			t.Fatalf("AddPart: %v", err)
		}
	}
	for _, pair := range [][2]artic.PartID{{"a", "b"}, {"b", "c"}, {"c", "a"}} {
		if err := a.AddJoint(artic.NewJoint("", pair[0], pair[1])); err != nil {
			t.Fatalf("AddJoint: %v", err)
		}
	}

	doc, rep := NewCompiler().Compile(a)
	if doc != nil {
		t.Fatal("structural errors must block the whole document")
	}
	if !hasReportFinding(rep.Errors, artic.CodeCycle) {
		t.Errorf("expected cycle error, got: %v", rep.Errors)
	}
}

func TestCompileEmptyModel(t *testing.T) {
	a := artic.New("")

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("empty model must compile, got: %v", rep.Errors)
	}
	if doc.Root.Name != DefaultModelName {
		t.Errorf("root name = %q, want %q", doc.Root.Name, DefaultModelName)
	}
	if len(doc.Root.Children) != 0 {
		t.Errorf("empty model emits a bare root, got %d children", len(doc.Root.Children))
	}
}

func TestCompileMissingRestPoseDropsJointOnly(t *testing.T) {
	a := buildArmModel(t)
	// Sever fore's rest pose: the elbow joint cannot resolve its frames.
	a.Parts.Get("fore").RestPose = nil

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("frame failures must not block the document: %v", rep.Errors)
	}
	if !hasReportFinding(rep.Errors, CodeMissingRestPose) {
		t.Errorf("expected MISSING_REST_POSE error, got: %v", rep.Errors)
	}

	joints := doc.Root.Child("Joints")
	if joints == nil {
		t.Fatal("expected Joints scope for the surviving joint")
	}
	if joints.Child("elbow") != nil {
		t.Error("elbow must be dropped")
	}
	if joints.Child("shoulder") == nil {
		t.Error("shoulder must survive")
	}
	// All three bodies are still emitted.
	for _, name := range []string{"base", "upper", "fore"} {
		if doc.Root.Child(name) == nil {
			t.Errorf("body %s missing from document", name)
		}
	}
}

func TestCompileFixedJointOmitsMotionBlocks(t *testing.T) {
	a := artic.New("m")
	if err := a.AddPart(newTestPart("base", artic.CategoryBase, v3.Vec{})); err != nil {
		t.Fatal(err)
	}
	mount := newTestPart("mount", artic.CategoryLink, v3.Vec{Z: 0.1})
	mount.Mobility = artic.MobilityFixed
	if err := a.AddPart(mount); err != nil {
		t.Fatal(err)
	}
	j := artic.NewJoint("weld", "base", "mount")
	j.Type = artic.JointFixed
	if err := a.AddJoint(j); err != nil {
		t.Fatal(err)
	}

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}

	weld := doc.Root.Child("Joints").Child("weld")
	if weld == nil {
		t.Fatal("expected weld joint node")
	}
	jb := weld.Joint
	if jb.Kind != scene.JointKindFixed {
		t.Errorf("kind = %s, want fixed", jb.Kind)
	}
	if jb.Limits != nil || jb.Drive != nil {
		t.Errorf("fixed joint must omit limits and drive, got %+v / %+v", jb.Limits, jb.Drive)
	}
	if jb.Axis.Length() != 0 {
		t.Errorf("fixed joint must omit the axis, got %v", jb.Axis)
	}
}

func TestCompilePrismaticDriveIsLinear(t *testing.T) {
	a := artic.New("m")
	if err := a.AddPart(newTestPart("base", artic.CategoryBase, v3.Vec{})); err != nil {
		t.Fatal(err)
	}
	slider := newTestPart("slider", artic.CategoryLink, v3.Vec{X: 0.5})
	slider.Mobility = artic.MobilityPrismatic
	if err := a.AddPart(slider); err != nil {
		t.Fatal(err)
	}
	j := artic.NewJoint("rail", "base", "slider")
	j.Type = artic.JointPrismatic
	j.Axis = v3.Vec{X: 2} // not unit length on purpose
	j.Limits = &artic.Limits{Lower: 0, Upper: 0.3}
	if err := a.AddJoint(j); err != nil {
		t.Fatal(err)
	}

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}

	jb := doc.Root.Child("Joints").Child("rail").Joint
	if jb.Kind != scene.JointKindPrismatic {
		t.Errorf("kind = %s, want prismatic", jb.Kind)
	}
	if !vecClose(jb.Axis, v3.Vec{X: 1}) {
		t.Errorf("axis = %v, want normalized (1 0 0)", jb.Axis)
	}
	if jb.Drive == nil || jb.Drive.Kind != scene.DriveLinear {
		t.Errorf("drive = %+v, want linear", jb.Drive)
	}
}

func TestCompileDriveNoneOmitsDrive(t *testing.T) {
	a := buildArmModel(t)
	a.Joints.Get("elbow").Drive.Type = artic.DriveNone

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	if jb := doc.Root.Child("Joints").Child("elbow").Joint; jb.Drive != nil {
		t.Errorf("expected no drive block, got %+v", jb.Drive)
	}
}

func TestCompileDuplicateDisplayNames(t *testing.T) {
	a := artic.New("m")
	p1 := newTestPart("p1", artic.CategoryBase, v3.Vec{})
	p1.Name = "Wheel Mount"
	p2 := newTestPart("p2", artic.CategoryLink, v3.Vec{Z: 0.5})
	p2.Name = "Wheel Mount"
	for _, p := range []*artic.Part{p1, p2} {
		if err := a.AddPart(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.AddJoint(artic.NewJoint("j", "p1", "p2")); err != nil {
		t.Fatal(err)
	}

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}

	// Both sanitize to Wheel_Mount; the second gets a suffix.
	if doc.Root.Child("Wheel_Mount") == nil {
		t.Error("expected first prim Wheel_Mount")
	}
	if doc.Root.Child("Wheel_Mount_2") == nil {
		t.Error("expected suffixed prim Wheel_Mount_2")
	}
}

func TestCompileIsolatedPartHasNoArticulationRoot(t *testing.T) {
	a := artic.New("m")
	if err := a.AddPart(newTestPart("brick", artic.CategoryBase, v3.Vec{})); err != nil {
		t.Fatal(err)
	}

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	brick := doc.Root.Child("brick")
	if brick == nil {
		t.Fatal("expected brick node")
	}
	// A base with no joints anchors nothing; the marker stays off.
	if brick.ArticulationRoot {
		t.Error("jointless part must not carry the articulation-root marker")
	}
	if doc.Root.Child("Joints") != nil {
		t.Error("no Joints scope without joints")
	}
}

func TestCompileDeterministic(t *testing.T) {
	a := buildArmModel(t)

	c := NewCompiler()
	first, firstRep := c.Compile(a)
	for i := 0; i < 5; i++ {
		again, rep := c.Compile(a)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("iteration %d: document differs between identical compiles", i)
		}
		if !reflect.DeepEqual(firstRep, rep) {
			t.Fatalf("iteration %d: report differs between identical compiles", i)
		}
	}
}

func TestCompileDoesNotMutateModel(t *testing.T) {
	a := buildArmModel(t)

	j := a.Joints.Get("shoulder")
	j.Axis = v3.Vec{Z: 5} // non-unit authored axis
	before := j.Axis

	doc, rep := NewCompiler().Compile(a)
	if doc == nil {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	if !vecClose(j.Axis, before) {
		t.Errorf("compile normalized the authored axis in place: %v", j.Axis)
	}
}
