// Package force implements an iterative force-directed layout for node-link
// diagrams.
//
// # Model
//
// A [Simulator] owns one body per node (position, velocity, radius, optional
// pin) and a list of [Link] values between body indices. Each call to
// [Simulator.Tick] advances the layout one step:
//
//  1. Links pull connected bodies toward LinkDistance. The correction is
//     split between the endpoints in proportion to their degree, so hubs move
//     less than leaves.
//  2. Many-body charge repels every pair of bodies. Far-away clusters are
//     approximated with a Barnes-Hut tree (gonum's spatial/barneshut) using
//     the Theta opening criterion.
//  3. Centering translates the whole layout so its centroid moves toward the
//     origin.
//  4. Collision pushes apart bodies whose discs (radius plus padding)
//     overlap. Candidate pairs come from a k-d tree over predicted positions.
//  5. Velocities decay by VelocityDecay and are added to positions. Pinned
//     bodies stay at their pin with zero velocity but still act on others.
//
// Forces are scaled by alpha, the simulation "temperature". Alpha moves
// toward AlphaTarget by AlphaDecay each tick; once it reaches AlphaMin
// the simulator is settled and Tick stops doing work until it is restarted.
//
// # Lifecycle
//
//	Idle --New--> Running --alpha < min--> Settled --Restart--> Running
//	                 |                        |
//	                 +-------Teardown---------+--> Idle
//
// A simulator with zero bodies is settled from the start and never ticks.
//
// # Initial Placement
//
// Bodies created without a position are placed on a phyllotaxis spiral
// around the origin, which is deterministic and avoids coincident starts.
// Bodies with a position (for example from a layout cache) keep it, which
// makes warm starts converge in a handful of ticks.
//
// # Parameters
//
// [Params] are validated on [New] and [Simulator.SetParams]. Updated
// parameters take effect on the next tick without rebuilding any state.
//
// Simulator is not safe for concurrent use.
package force
