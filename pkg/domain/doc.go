/*
Package domain contains the core model of the mission editor.

It defines the entities manipulated by the editing engine: Steps, the Templates used
to seed a session, and the Snapshot that a collaborator may persist. This package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Step: a typed node of a mission graph, carrying a position and a backend-opaque config.
  - Template: an immutable named seed graph.
  - Snapshot: the serializable editing state of one session (steps, selection, active drag).
  - Change: a notification record emitted after every mutation.
*/
package domain
