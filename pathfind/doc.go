// Package pathfind proves a level completable by searching the simulator's
// state space for a macro-action sequence from spawn to the exit sensor
// with zero hazard contact.
//
// The search is A* with uniform edge cost (one macro-action) and an
// admissible straight-line heuristic. States are deduplicated by
// quantizing position and velocity onto a coarse grid together with the
// grounded flag, short-fly availability, rounded fuel, a discretized frame
// phase, and the ability bitmask; a successor is kept only when it beats
// the best cost previously seen for its key.
//
// Domain pruning keeps the expansion tractable: successors touching a
// hazard, falling past the kill plane, regressing too far behind the
// furthest x reached, oscillating in place, or crossing a precomputed
// unbridgeable gap are discarded before entering the open set.
//
// Every iteration of the main loop checks both the node-expansion ceiling
// and the wall-clock deadline, so a search is cooperatively abortable and
// always returns within its configured budget with one of the closed
// failure reasons: timeout, node_limit, or no_path.
package pathfind
