// Package zone maintains the in-memory occupancy state for every
// configured zone.
//
// The store is the single source of truth for "who is where right now".
// It is seeded from configuration at startup with every zone vacant, and
// updated exclusively by the presence pipeline. State is not persisted;
// on restart it rebuilds as presence events arrive from the broker.
//
// Each zone carries a monotonically increasing revision, bumped on every
// update. Consumers that fan state out asynchronously (the WebSocket hub)
// use the revision to discard stale snapshots, so a subscriber never
// observes occupancy going backwards in time.
//
// All reads return deep copies; callers can never mutate store internals.
package zone
