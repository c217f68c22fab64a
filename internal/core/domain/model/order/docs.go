// Package order provides domain entities and business logic for order management
// in the routing system. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, customer data, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders must have a valid unique identifier, public number, customer name, and street
//   - Only ReadyForDelivery orders may go out for delivery
//   - Only OutForDelivery orders may be delivered or requeued
//   - Delivered and Cancelled are terminal states
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
