/*
Package missionkit is the core of a visual mission editor: a small directed
graph of typed steps (actions, conditions, rewards, verifications) that an
operator arranges on a canvas, wires together, and configures.

The library keeps the editing model separate from any view. A [Studio]
wires the pieces together:

  - a kind registry describing how each step kind is presented (pkg/registry)
  - a catalog of reusable mission templates (pkg/catalog, pkg/dsl, pkg/adapters/loam)
  - the graph store, drag engine, edge renderer and inspector of one editing
    session (pkg/graph, pkg/layout, pkg/render, pkg/inspector, pkg/editor)
  - a session manager persisting snapshots through a pluggable store
    (pkg/session with memory, file, Redis or Postgres adapters)

# Usage

	ctx := context.Background()
	studio, err := missionkit.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	snap, err := studio.Sessions().Create(ctx, "", "quickstart")
	if err != nil {
		log.Fatal(err)
	}

	out, err := studio.Sessions().Apply(ctx, snap.SessionID, editor.Command{
		Op:       editor.OpConnect,
		StepID:   "start",
		TargetID: "payout",
	})

Every command yields a [domain.SnapshotDiff] that live views (the HTTP
adapter's SSE and WebSocket streams) apply incrementally.

An unpersisted editor for embedding in a single process is available through
[Studio.NewEditor].
*/
package missionkit
