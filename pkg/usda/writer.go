// Package usda serializes a compiled physics-scene document to USDA text.
// The layout matches what a physics-enabled USD stage expects: stage
// metadata, a PhysicsScene prim, one Xform per body carrying the physics
// API schemas, and the joint prims grouped under a Joints scope.
package usda

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/scene"
)

// Write serializes the document to w. Output is byte-identical across
// repeated calls on the same document.
func Write(w io.Writer, doc *scene.Document) error {
	if doc == nil || doc.Root == nil {
		return fmt.Errorf("usda: nil document")
	}
	p := &printer{w: w}
	p.writeHeader(doc.Root)
	p.writePrim(doc.Root, "/"+doc.Root.Name)
	return p.err
}

// String serializes the document to a string.
func String(doc *scene.Document) (string, error) {
	var b strings.Builder
	if err := Write(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// printer tracks indentation and the first write error.
type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, strings.Repeat("    ", p.indent)+format, args...)
}

func (p *printer) writeHeader(root *scene.Node) {
	p.printf("#usda 1.0\n(\n")
	p.indent++
	p.printf("defaultPrim = %q\n", root.Name)
	if root.Stage != nil {
		p.printf("metersPerUnit = %s\n", ftoa(root.Stage.MetersPerUnit))
		p.printf("upAxis = %q\n", root.Stage.UpAxis)
	}
	p.indent--
	p.printf(")\n\n")
}

// writePrim emits one prim and its subtree.
func (p *printer) writePrim(n *scene.Node, path string) {
	switch n.Kind {
	case scene.KindRoot:
		p.printf("def Xform %q\n", n.Name)
	case scene.KindPart:
		schemas := partSchemas(n)
		p.printf("def Xform %q (\n", n.Name)
		p.indent++
		p.printf("prepend apiSchemas = [%s]\n", schemas)
		p.indent--
		p.printf(")\n")
	case scene.KindScope:
		if n.Physics != nil {
			p.printf("def PhysicsScene %q\n", n.Name)
		} else {
			p.printf("def Scope %q\n", n.Name)
		}
	case scene.KindJoint:
		p.printf("def %s %q\n", n.Joint.Kind, n.Name)
	}

	p.printf("{\n")
	p.indent++

	if n.Physics != nil {
		p.printf("vector3f physics:gravityDirection = %s\n", vtoa(n.Physics.GravityDirection))
		p.printf("float physics:gravityMagnitude = %s\n", ftoa(n.Physics.GravityMagnitude))
	}
	if n.Kind == scene.KindPart {
		p.writeBody(n)
	}
	if n.Joint != nil {
		p.writeJoint(n.Joint, path)
	}

	for i, child := range n.Children {
		if i > 0 || n.Kind == scene.KindPart || n.Joint != nil || n.Physics != nil {
			p.printf("\n")
		}
		p.writePrim(child, path+"/"+child.Name)
	}

	p.indent--
	p.printf("}\n")
}

// partSchemas lists the API schemas a body prim carries, in a fixed order.
func partSchemas(n *scene.Node) string {
	var s []string
	if n.ArticulationRoot {
		s = append(s, `"PhysicsArticulationRootAPI"`)
	}
	if n.RigidBody != nil {
		s = append(s, `"PhysicsRigidBodyAPI"`)
	}
	if n.Mass != nil {
		s = append(s, `"PhysicsMassAPI"`)
	}
	if n.Collision != nil {
		s = append(s, `"PhysicsCollisionAPI"`, `"PhysicsMeshCollisionAPI"`)
	}
	if n.Material != nil {
		s = append(s, `"PhysicsMaterialAPI"`)
	}
	return strings.Join(s, ", ")
}

func (p *printer) writeBody(n *scene.Node) {
	if n.RigidBody != nil && n.RigidBody.Kinematic {
		p.printf("bool physics:kinematicEnabled = 1\n")
	}
	if m := n.Mass; m != nil {
		switch m.Mode {
		case scene.MassModeExplicit:
			p.printf("float physics:mass = %s\n", ftoa(m.Mass))
		case scene.MassModeDensity:
			p.printf("float physics:density = %s\n", ftoa(m.Density))
		}
		if m.CenterOfMass != nil {
			p.printf("point3f physics:centerOfMass = %s\n", vtoa(*m.CenterOfMass))
		}
	}
	if c := n.Collision; c != nil {
		p.printf("uniform token physics:approximation = %q\n", c.Approximation)
	}
	if mat := n.Material; mat != nil {
		p.printf("float physics:staticFriction = %s\n", ftoa(mat.StaticFriction))
		p.printf("float physics:dynamicFriction = %s\n", ftoa(mat.DynamicFriction))
		p.printf("float physics:restitution = %s\n", ftoa(mat.Restitution))
	}
	if g := n.Geometry; g != nil {
		p.printf("float3[] extent = [%s, %s]\n", vtoa(g.BoundsMin), vtoa(g.BoundsMax))
	}
}

// writeJoint emits the joint attributes. Body paths are rooted at the
// document root, which is the segment before the Joints scope in path.
func (p *printer) writeJoint(j *scene.JointBlock, path string) {
	rootPath := path
	if i := strings.Index(path[1:], "/"); i >= 0 {
		rootPath = path[:i+1]
	}
	p.printf("rel physics:body0 = <%s/%s>\n", rootPath, j.Body0)
	p.printf("rel physics:body1 = <%s/%s>\n", rootPath, j.Body1)
	if j.Kind != scene.JointKindFixed {
		p.printf("uniform token physics:axis = %q\n", axisToken(j.Axis))
	}
	p.printf("point3f physics:localPos0 = %s\n", vtoa(j.Local0))
	p.printf("point3f physics:localPos1 = %s\n", vtoa(j.Local1))
	p.printf("quatf physics:localRot0 = (1, 0, 0, 0)\n")
	p.printf("quatf physics:localRot1 = (1, 0, 0, 0)\n")
	if j.Limits != nil {
		p.printf("float physics:lowerLimit = %s\n", ftoa(j.Limits.Lower))
		p.printf("float physics:upperLimit = %s\n", ftoa(j.Limits.Upper))
	}
	if j.FilterCollision {
		p.printf("bool physics:collisionEnabled = 0\n")
	}
	if d := j.Drive; d != nil {
		ns := "drive:" + d.Kind.String()
		p.printf("uniform token %s:physics:type = \"force\"\n", ns)
		p.printf("float %s:physics:stiffness = %s\n", ns, ftoa(d.Stiffness))
		p.printf("float %s:physics:damping = %s\n", ns, ftoa(d.Damping))
		p.printf("float %s:physics:maxForce = %s\n", ns, ftoa(d.MaxForce))
		switch d.Control {
		case "velocity":
			p.printf("float %s:physics:targetVelocity = 0\n", ns)
		default:
			p.printf("float %s:physics:targetPosition = 0\n", ns)
		}
	}
}

// axisToken maps a direction vector to the dominant-axis token the joint
// schema expects.
func axisToken(axis v3.Vec) string {
	x, y, z := math.Abs(axis.X), math.Abs(axis.Y), math.Abs(axis.Z)
	switch {
	case x >= y && x >= z:
		return "X"
	case y >= x && y >= z:
		return "Y"
	default:
		return "Z"
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func vtoa(v v3.Vec) string {
	return fmt.Sprintf("(%s, %s, %s)", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
}
