// Package tasks implements the room view synchronization engine.
//
// The Engine owns the client's two room collection views ("all rooms" and
// "my rooms"), funnels every mutating operation through the backend, and
// re-fetches both views after each successful mutation. Both views are
// non-authoritative snapshots: the server owns room state, the engine only
// mirrors it.
package tasks
