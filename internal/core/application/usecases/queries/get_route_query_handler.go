package queries

import (
	"context"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRouteQueryHandler reads one route with its stops straight from the
// database, bypassing the domain aggregates.
type GetRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetRouteQueryHandler creates a handler for single-route reads.
// Requires a GORM database connection for query execution.
func NewGetRouteQueryHandler(db *gorm.DB) GetRouteQueryHandler {
	return GetRouteQueryHandler{db: db}
}

// Handle executes the route read.
// Returns an ObjectNotFoundError when no route matches the identifier.
// Stops come back sorted by sequence.
func (h GetRouteQueryHandler) Handle(ctx context.Context, query GetRouteQuery) (GetRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteQueryResponse{}, err
	}

	var resp GetRouteQueryResponse

	routeRows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			deliverer_id,
			started_at,
			completed_at
		FROM routes
		WHERE id = ?
	`, query.RouteID().Bytes()).Rows()
	if err != nil {
		return GetRouteQueryResponse{}, err
	}
	defer routeRows.Close()

	if !routeRows.Next() {
		if err = routeRows.Err(); err != nil {
			return GetRouteQueryResponse{}, err
		}
		return GetRouteQueryResponse{}, errs.NewObjectNotFoundError("route", query.RouteID().String())
	}

	var (
		id          uuid.UUID
		status      int
		delivererID *uuid.UUID
	)
	err = routeRows.Scan(&id, &resp.Number, &status, &delivererID, &resp.StartedAt, &resp.CompletedAt)
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetRouteQueryResponse{}, err
	}
	resp.Status = route.Status(status)
	if delivererID != nil {
		deliverer, idErr := kernel.UUIDFromBytes(delivererID[:])
		if idErr != nil {
			return GetRouteQueryResponse{}, idErr
		}
		resp.DelivererID = &deliverer
	}

	resp.Stops, err = h.readStops(ctx, query.RouteID())
	if err != nil {
		return GetRouteQueryResponse{}, err
	}
	resp.TotalStops = len(resp.Stops)

	return resp, nil
}

func (h GetRouteQueryHandler) readStops(ctx context.Context, routeID kernel.UUID) ([]GetRouteStopResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sequence,
			status,
			order_id,
			order_number,
			customer_name,
			phone,
			street,
			delivered_at,
			failed_at,
			failure_reason
		FROM stops
		WHERE route_id = ?
		ORDER BY sequence
	`, routeID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := make([]GetRouteStopResponse, 0)
	for rows.Next() {
		var (
			stop    GetRouteStopResponse
			id      uuid.UUID
			orderID uuid.UUID
			status  int
		)

		err = rows.Scan(
			&id,
			&stop.Sequence,
			&status,
			&orderID,
			&stop.OrderNumber,
			&stop.CustomerName,
			&stop.Phone,
			&stop.Street,
			&stop.DeliveredAt,
			&stop.FailedAt,
			&stop.FailureReason,
		)
		if err != nil {
			return nil, err
		}

		stop.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		stop.OrderID, err = kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return nil, err
		}
		stop.Status = route.StopStatus(status)

		stops = append(stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}
