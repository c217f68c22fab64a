// Package route provides the Route aggregate root and its Stop entities for
// the routing system. It implements the stop lifecycle state machine that
// drives a planned delivery run from creation to automatic completion.
//
// The package includes:
//   - Route: The aggregate root owning an ordered list of stops
//   - Stop: One delivery within a route, snapshotting its order at creation time
//   - Status / StopStatus: State machines for route and stop lifecycles
//
// Key business rules:
//   - Route and stops are created atomically; stop sequences are 1..totalStops and never renumbered
//   - While a route is InProgress, at most one stop has status Next
//   - Delivered, Failed, and Skipped stops are terminal and immutable
//   - A route completes automatically when its last open stop is finalized
package route
