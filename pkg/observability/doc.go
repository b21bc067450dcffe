/*
Package observability turns carousel lifecycle hooks into Prometheus metrics
and structured log lines.

Both are plain domain.LifecycleHooks values, so they compose with any other
hooks through domain.ComposeHooks.
*/
package observability
