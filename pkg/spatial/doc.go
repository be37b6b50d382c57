// Package spatial answers "which node is under the pointer" for laid-out
// graphs.
//
// A [Picker] is built from a snapshot of node positions in world space and
// indexes them in a k-d tree (gonum's spatial/kdtree). [Picker.Pick] returns
// the node closest to a query point among those within the hit radius;
// equidistant candidates resolve to the lower node index so results are
// deterministic. [PickLinear] implements the same contract by brute force and
// serves as a reference for tests and tiny graphs.
//
// Pickers are immutable once built. Rebuild after positions change; the
// engine does this lazily, only when a pick follows a simulation tick.
package spatial
