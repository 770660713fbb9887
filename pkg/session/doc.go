/*
Package session implements session management and persistence orchestration.

The editing core is synchronous and single-threaded. The Manager keeps it that
way when many requests target one session: every command loads the snapshot,
rebuilds an editor.Session, applies the command and saves the result while
holding a per-session lock, optionally backed by a distributed locker.
*/
package session
