/*
Package ports defines the driven ports (interfaces) of missionkit.

These interfaces decouple the editing core from external implementations, so
sessions can be persisted to memory, files, Redis or Postgres, and templates
can be loaded from outside the built-in catalog.

# Key Interfaces

  - SnapshotStore: persists and loads session snapshots.
  - DistributedLocker: serializes access to a session across instances.
  - TemplateLoader: reads template definitions for the catalog.
*/
package ports
