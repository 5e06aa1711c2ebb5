// Package compile turns a validated articulation model into a physics-scene
// document. It resolves each part's mass and collision parameterization,
// computes joint local frames from rest poses, and assembles the document
// tree in a deterministic order. The compiler is a pure transformation: it
// never mutates the model and holds no state between calls, so independent
// snapshots may be compiled concurrently.
package compile
