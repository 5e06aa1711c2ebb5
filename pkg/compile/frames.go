package compile

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/armature/pkg/artic"
)

// JointFrames are the resolved local reference frames of one joint: the
// anchor expressed in the parent body's local space and in the child body's
// local space. Rotations are identity; the authored anchor fixes position
// only.
type JointFrames struct {
	Local0 v3.Vec // parent-local
	Local1 v3.Vec // child-local
}

// FrameResolver computes joint local frames from the parts' rest poses.
type FrameResolver struct{}

// Resolve computes both frames for a joint. The anchor is authored in the
// child's local frame, so the child frame is the anchor itself; the parent
// frame carries the same world-space point through the child's rest pose
// and back through the inverse of the parent's.
//
// Missing rest poses make the joint unresolvable; the caller drops the
// joint from output and records the returned error, compilation continues
// for the remaining joints.
func (FrameResolver) Resolve(j *artic.Joint, parent, child *artic.Part) (JointFrames, error) {
	if parent.RestPose == nil {
		return JointFrames{}, fmt.Errorf("joint %q: part %q has no rest pose", j.Name, parent.ID)
	}
	if child.RestPose == nil {
		return JointFrames{}, fmt.Errorf("joint %q: part %q has no rest pose", j.Name, child.ID)
	}
	world := child.RestPose.MulPosition(j.Anchor)
	local0 := parent.RestPose.Inverse().MulPosition(world)
	return JointFrames{Local0: local0, Local1: j.Anchor}, nil
}
