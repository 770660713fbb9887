// Package layout turns pointer drag gestures into step position updates.
//
// A DragEngine tracks at most one dragged step. Starting a new drag replaces
// the previous one, dropping commits the position through a Mover and clears
// the marker, and dropping with no active drag does nothing. Positions are
// never clamped to the canvas.
package layout
