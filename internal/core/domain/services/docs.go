// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the routing system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - Sequencer: A domain service arranging order batches into visiting order
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
