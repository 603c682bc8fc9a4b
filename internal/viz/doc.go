// Package viz is the interactive terminal front-end.
//
// [Model] is a Bubble Tea program that draws the bodies of a running
// simulation on a braille [Canvas], centred on the focus body, next to a
// stats panel with an energy chart. Dragging with the left mouse button
// adds a body: the drag vector sets its velocity and the time the button
// was held sets its mass.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the starting scenario
//	+/-   - Zoom (also the mouse wheel)
//	T     - Cycle color themes
//	L     - Toggle mass labels
//	?     - Show help overlay
package viz
