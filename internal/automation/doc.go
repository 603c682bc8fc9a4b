// Package automation replays scripted body additions.
//
// A script is a YAML list of events keyed by tick. Each event either adds
// a body verbatim or replays a mouse drag on a virtual view, which goes
// through the same mass and velocity mapping as the live view:
//
//	view: {width: 160, height: 96, scale: 2}
//	events:
//	  - tick: 0
//	    body: {mass: 1000, pos: [0, 0], vel: [0, 0]}
//	  - tick: 500
//	    drag: {press: [80, 48], release: [100, 48], hold_ms: 200}
package automation
