// Package artic defines the canonical articulation model: parts, joints,
// the joint graph connecting them, and the structural validation that runs
// before a model may be compiled into a physics scene.
package artic
