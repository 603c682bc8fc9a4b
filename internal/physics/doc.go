// Package physics provides the value types of the gravity simulation.
//
//   - [Vec2]: immutable 2-D vector
//   - [Body]: point mass with position, velocity and a fixed mass
//
// Arithmetic on [Vec2] is unguarded: dividing by zero yields
// the IEEE-754 infinity or NaN and that value is carried forward rather
// than rejected. Use [Vec2.IsFinite] or [Body.IsFinite] to detect it.
package physics
