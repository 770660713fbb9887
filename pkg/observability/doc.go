/*
Package observability turns editor lifecycle events into logs and Prometheus metrics.

Both are exposed as domain.LifecycleHooks so they can be merged and handed to
the session manager.
*/
package observability
