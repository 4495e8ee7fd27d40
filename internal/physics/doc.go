// Package physics provides the coupled vehicle models for simulation.
//
// Two pure evaluators form the core:
//
//   - [Motor]: per-wheel DC-motor electromechanics, converting applied voltage
//     into shaft torque across four independent lanes
//   - [Rover]: six-degree-of-freedom rigid-body dynamics, converting wheel
//     torques and external disturbance loads into the 12-state derivative
//
// Both implement [dynamo.Configurable] for runtime parameter adjustment.
// Neither holds mutable state: the simulation driver owns the evolving state
// and calls the evaluators with values each step.
package physics
