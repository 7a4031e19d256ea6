// Package viz provides the terminal view of a running orrery.
//
// The view is a Bubble Tea program fed by engine updates:
//
//   - [Model]: live view with orbit canvas, stats panel and energy drift graph
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera]: orthographic projection of the orbital plane
//
// # Key Bindings
//
//	Space - Start/stop the engine
//	R     - Reset to the catalog
//	+/-   - Double/halve the time step
//	M     - Cycle integration methods
//	Arrows- Tilt and spin the view
//	Z/z   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
