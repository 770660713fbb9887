// Package graph implements the mutable step graph of one editing session.
//
// The Store is an arena of steps indexed by id, with edges kept as id
// references on the source step. It is the only mutation surface for steps
// and selection, and notifies subscribers synchronously after every change.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines serialize access themselves (see pkg/session).
package graph
