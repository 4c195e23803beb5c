// Package viz provides terminal rendering for Kuramoto runs.
//
//   - [Model]: a Bubble Tea program that animates the ensemble on the unit
//     circle with the centroid vector and a scrolling R history
//   - [Canvas]: Braille-based pixel canvas
//   - [RenderSummary]: lipgloss panel for a finished run
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset phases and coupling
//	+/-   - Adjust coupling strength k
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
