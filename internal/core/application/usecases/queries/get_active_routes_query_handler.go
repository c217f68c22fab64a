package queries

import (
	"context"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveRoutesQueryHandler retrieves routes still being worked from the
// database. Provides the active delivery workload at a glance.
//
// Example:
//
//	handler := NewGetActiveRoutesQueryHandler(db)
//	query := NewGetActiveRoutesQuery()
//
//	routes, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active routes: %w", err)
//	}
//	for _, r := range routes {
//	    fmt.Printf("%s: %d/%d stops done\n", r.Number, r.FinalizedStops, r.TotalStops)
//	}
type GetActiveRoutesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveRoutesQueryHandler creates a handler for active route queries.
// Requires a GORM database connection for query execution.
func NewGetActiveRoutesQueryHandler(db *gorm.DB) GetActiveRoutesQueryHandler {
	return GetActiveRoutesQueryHandler{db: db}
}

// Handle executes the query to retrieve all non-terminal routes.
// Results are sorted by route number for consistent output.
func (h GetActiveRoutesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveRoutesQuery,
) ([]GetActiveRoutesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	routes := make([]GetActiveRoutesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.number,
			r.status,
			r.deliverer_id,
			r.started_at,
			COUNT(s.id),
			COUNT(s.id) FILTER (WHERE s.status IN (?, ?, ?))
		FROM routes r
		LEFT JOIN stops s ON s.route_id = r.id
		WHERE r.status NOT IN (?, ?)
		GROUP BY r.id, r.number, r.status, r.deliverer_id, r.started_at
		ORDER BY r.number
	`,
		route.StopDelivered, route.StopFailed, route.StopSkipped,
		route.Completed, route.Cancelled,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp        GetActiveRoutesQueryResponse
			id          uuid.UUID
			status      int
			delivererID *uuid.UUID
		)

		err = rows.Scan(
			&id,
			&resp.Number,
			&status,
			&delivererID,
			&resp.StartedAt,
			&resp.TotalStops,
			&resp.FinalizedStops,
		)
		if err != nil {
			return nil, err
		}

		resp.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		resp.Status = route.Status(status)
		if delivererID != nil {
			deliverer, idErr := kernel.UUIDFromBytes(delivererID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.DelivererID = &deliverer
		}

		routes = append(routes, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}
