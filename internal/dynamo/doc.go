// Package dynamo provides core primitives for vehicle dynamics simulation.
//
// The package defines the fundamental types shared by the physics models and
// the simulation driver:
//
//   - [State]: the 12-dimensional vehicle state vector
//   - index constants naming each state channel
//   - domain error variables shared by the models and the driver
//
// # State Layout
//
// The vehicle state is ordered as body-frame linear velocity (u, v, w),
// body-frame angular rate (p, q, r), world-frame position (x, y, z), and
// Euler attitude (phi, theta, psi). The yaw angle psi is kept within
// [-pi, pi) by the rigid-body model, which wraps it on read.
package dynamo
