// Package render derives displayable edges from a step collection.
//
// Nothing here holds state: every call recomputes from the steps it is given,
// and connections whose target does not resolve are skipped.
package render
