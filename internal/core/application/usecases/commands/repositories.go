// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"routing/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// RouteRepoFactory provides access to the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DelivererRepoFactory provides access to the deliverer repository within a transaction.
	DelivererRepoFactory interface {
		DelivererRepository() ports.DelivererRepository
	}

	// RouteUoW manages transactions for route-only operations.
	// Used when commands only modify the route aggregate.
	RouteUoW interface {
		TxManager
		RouteRepoFactory
	}

	// RouteUoWFactory creates new route unit of work instances.
	RouteUoWFactory interface {
		Create() RouteUoW
	}

	// StopUoW manages transactions for stop lifecycle operations.
	// Stop transitions mutate the route aggregate and, as a side effect,
	// the status of the order delivered at the stop.
	StopUoW interface {
		TxManager
		RouteRepoFactory
		OrderRepoFactory
	}

	// StopUoWFactory creates new stop unit of work instances.
	StopUoWFactory interface {
		Create() StopUoW
	}

	// UoW manages transactions across route, order, and deliverer aggregates.
	// Used by route creation, which reads deliverers and writes routes and orders.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   routeRepo := uow.RouteRepository()
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		RouteRepoFactory
		OrderRepoFactory
		DelivererRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
