/*
Package observability provides tools for monitoring the state machine engine.

It includes Prometheus metrics and structured logging, both delivered as
domain.LifecycleHooks so they can be attached to any engine, and a load
observer for registries.
*/
package observability
