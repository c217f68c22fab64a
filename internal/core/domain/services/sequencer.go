package services

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/core/ports"
)

// Leg thresholds that trigger a diagnostic log entry. A leg above the
// threshold usually means a mis-geocoded order slipped into the batch.
const (
	longLegSeconds = 30 * 60
	longLegKm      = 50.0
)

// Sequencer is a domain service that arranges a batch of orders into visiting
// order using greedy nearest-neighbor selection.
//
// Travel costs come from a travel-time oracle when one is configured and
// answers; otherwise straight-line haversine distance is used. Both cost
// sources run through the same selection loop, so the produced sequence is
// deterministic for a given input regardless of which source served it.
//
// Business rules:
//   - Sequencing always succeeds; a failing oracle degrades the cost source,
//     never the operation
//   - With a depot, the tour starts there and the first hop is depot to the
//     nearest order; without one, the tour starts at the oldest-created
//     geocoded order
//   - Ties between equally distant candidates resolve to the earliest order
//     in the input batch
//   - Orders without coordinates are placed after all geocoded orders,
//     sorted by creation time, oldest first
type Sequencer struct {
	oracle ports.TravelTimeOracle
	log    *slog.Logger
}

// NewSequencer creates a Sequencer. The oracle may be nil, in which case
// every batch is sequenced on haversine distance.
func NewSequencer(oracle ports.TravelTimeOracle, log *slog.Logger) Sequencer {
	if log == nil {
		log = slog.Default()
	}
	return Sequencer{oracle: oracle, log: log}
}

// Sequence returns the orders arranged in visiting order.
//
// When depot is non-nil the greedy tour is anchored there; when nil it starts
// at the oldest-created geocoded order. Orders without coordinates are
// appended after the geocoded ones, oldest first. Batches of zero or one
// geocoded orders are returned as-is without consulting the oracle.
func (s Sequencer) Sequence(ctx context.Context, orders []*order.Order, depot *kernel.GeoPoint) []*order.Order {
	geocoded := make([]*order.Order, 0, len(orders))
	blind := make([]*order.Order, 0)
	for _, o := range orders {
		if o.HasLocation() {
			geocoded = append(geocoded, o)
		} else {
			blind = append(blind, o)
		}
	}
	sort.SliceStable(blind, func(i, j int) bool {
		return blind[i].CreatedAt().Before(blind[j].CreatedAt())
	})

	if len(geocoded) < 2 {
		return append(geocoded, blind...)
	}

	costs, longLeg := s.buildCostMatrix(ctx, geocoded, depot)
	sequenced := s.greedy(geocoded, costs, depot != nil, longLeg)

	return append(sequenced, blind...)
}

// tourPoints lists the matrix points: the depot first when present, then the
// geocoded order locations in input order.
func tourPoints(geocoded []*order.Order, depot *kernel.GeoPoint) []kernel.GeoPoint {
	points := make([]kernel.GeoPoint, 0, len(geocoded)+1)
	if depot != nil {
		points = append(points, *depot)
	}
	for _, o := range geocoded {
		points = append(points, *o.Location())
	}
	return points
}

// buildCostMatrix returns the pairwise cost matrix over the tour points plus
// the long-leg threshold in the matrix's cost unit. The oracle is tried
// first; haversine serves as the fallback cost source.
func (s Sequencer) buildCostMatrix(
	ctx context.Context, geocoded []*order.Order, depot *kernel.GeoPoint,
) ([][]float64, float64) {
	points := tourPoints(geocoded, depot)

	if s.oracle != nil {
		matrix, err := s.oracle.Matrix(ctx, points)
		if err == nil && s.validMatrix(matrix, len(points)) {
			return matrix, longLegSeconds
		}
		if err != nil {
			s.log.Warn("travel time oracle failed, falling back to haversine",
				"orders", len(geocoded), "error", err)
		} else {
			s.log.Warn("travel time matrix has wrong dimensions, falling back to haversine",
				"orders", len(geocoded), "expected", len(points))
		}
	}

	return haversineMatrix(points), longLegKm
}

// validMatrix checks that the oracle returned a full NxN matrix of finite,
// non-negative cells. Anything else is discarded in favor of the fallback.
func (s Sequencer) validMatrix(matrix [][]float64, n int) bool {
	if len(matrix) != n {
		return false
	}
	for _, row := range matrix {
		if len(row) != n {
			return false
		}
		for _, cell := range row {
			if cell < 0 || math.IsNaN(cell) || math.IsInf(cell, 0) {
				return false
			}
		}
	}
	return true
}

// haversineMatrix builds the fallback cost matrix from straight-line
// distances in kilometers.
func haversineMatrix(points []kernel.GeoPoint) [][]float64 {
	matrix := make([][]float64, len(points))
	for i := range points {
		matrix[i] = make([]float64, len(points))
		for j := range points {
			if i == j {
				continue
			}
			km, err := points[i].DistanceKm(points[j])
			if err != nil {
				km = math.MaxFloat64
			}
			matrix[i][j] = km
		}
	}
	return matrix
}

// greedy runs nearest-neighbor selection over the cost matrix. When anchored,
// matrix position 0 is the depot and geocoded[i] maps to position i+1;
// otherwise geocoded[i] maps to position i and the tour is seeded with the
// oldest-created order. Ties resolve to the lowest input index.
func (s Sequencer) greedy(
	geocoded []*order.Order, costs [][]float64, anchored bool, longLeg float64,
) []*order.Order {
	offset := 0
	if anchored {
		offset = 1
	}

	visited := make([]bool, len(geocoded))
	sequenced := make([]*order.Order, 0, len(geocoded))

	current := 0
	if !anchored {
		seed := oldestIndex(geocoded)
		visited[seed] = true
		sequenced = append(sequenced, geocoded[seed])
		current = seed
	}

	for len(sequenced) < len(geocoded) {
		// The first unvisited candidate always wins the initial comparison,
		// so best is settled even when every remaining cost saturates the
		// float range.
		best := -1
		bestCost := math.MaxFloat64
		for i := range geocoded {
			if visited[i] {
				continue
			}
			cost := costs[current][i+offset]
			if best == -1 || cost < bestCost {
				bestCost = cost
				best = i
			}
		}

		if bestCost > longLeg {
			s.log.Warn("unusually long leg in sequenced route",
				"order", geocoded[best].Number(), "cost", bestCost)
		}

		visited[best] = true
		sequenced = append(sequenced, geocoded[best])
		current = best + offset
	}

	return sequenced
}

// oldestIndex returns the index of the oldest-created order.
// The earliest input position wins on identical timestamps.
func oldestIndex(orders []*order.Order) int {
	oldest := 0
	for i, o := range orders {
		if o.CreatedAt().Before(orders[oldest].CreatedAt()) {
			oldest = i
		}
	}
	return oldest
}
