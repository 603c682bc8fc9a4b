// Package control turns user gestures into simulation input.
//
// A mouse drag on the view becomes a new body:
//
//	mass     = 10^(durationMs / 200)
//	position = (release − viewport/2) · 10^scale + focus.Position
//	velocity = (release − press) · 10^(scale − 3) + focus.Velocity
//
// [BuildBody] is a pure function of the gesture, the view and the focus
// body; [Tracker] records press/release pairs coming from an event loop.
package control
