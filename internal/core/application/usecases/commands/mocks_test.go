package commands_test

import (
	"context"
	"testing"
	"time"

	"routing/internal/core/application/usecases/commands"
	"routing/internal/core/domain/model/deliverer"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/core/domain/model/route"
	"routing/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetByStopID(ctx context.Context, stopID kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetAllActive(ctx context.Context) ([]*route.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.Route), args.Error(1)
}

func (m *MockRouteRepository) CountForDay(ctx context.Context, day time.Time) (int, error) {
	args := m.Called(ctx, day)
	return args.Int(0), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDelivererRepository struct{ mock.Mock }

func (m *MockDelivererRepository) Add(ctx context.Context, d *deliverer.Deliverer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDelivererRepository) Update(ctx context.Context, d *deliverer.Deliverer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDelivererRepository) Get(ctx context.Context, id kernel.UUID) (*deliverer.Deliverer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deliverer.Deliverer), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DelivererRepository() ports.DelivererRepository {
	args := m.Called()
	return args.Get(0).(ports.DelivererRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockRouteUoWFactory struct{ mock.Mock }

func (m *MockRouteUoWFactory) Create() commands.RouteUoW {
	args := m.Called()
	return args.Get(0).(commands.RouteUoW)
}

type MockStopUoWFactory struct{ mock.Mock }

func (m *MockStopUoWFactory) Create() commands.StopUoW {
	args := m.Called()
	return args.Get(0).(commands.StopUoW)
}

// fakeDepot is a plain-geometry depot service used by handler tests.
type fakeDepot struct {
	depot    kernel.GeoPoint
	radiusKm float64
}

func (f fakeDepot) Depot() kernel.GeoPoint      { return f.depot }
func (f fakeDepot) DeliveryRadiusKm() float64   { return f.radiusKm }
func (f fakeDepot) DistanceFromDepotKm(point kernel.GeoPoint) float64 {
	km, err := f.depot.DistanceKm(point)
	if err != nil {
		return 0
	}
	return km
}

func (f fakeDepot) IsWithinDeliveryRadius(point kernel.GeoPoint) bool {
	return f.DistanceFromDepotKm(point) <= f.radiusKm
}

// fakeGeofence flags the configured order locations as excluded.
type fakeGeofence struct {
	blocked map[kernel.GeoPoint]string
}

func (f fakeGeofence) IsInsideExclusionZone(point kernel.GeoPoint) bool {
	_, ok := f.blocked[point]
	return ok
}

func (f fakeGeofence) ExclusionZones(point kernel.GeoPoint) []string {
	if zone, ok := f.blocked[point]; ok {
		return []string{zone}
	}
	return nil
}

// fakeSides keeps only the orders whose numbers are listed for the side.
type fakeSides struct {
	bySide map[string][]string
}

func (f fakeSides) FilterBySide(orders []*order.Order, side string) ([]*order.Order, []string) {
	allowed := make(map[string]struct{})
	for _, number := range f.bySide[side] {
		allowed[number] = struct{}{}
	}

	filtered := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := allowed[o.Number()]; ok {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

var commandTestEpoch = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func makeReadyOrder(t *testing.T, number string, lat, lon float64) *order.Order {
	t.Helper()

	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)

	o, err := order.RestoreOrder(
		kernel.NewUUID(), number, "Customer "+number, "+5511999990000", "Street 1", &point,
		order.ReadyForDelivery, commandTestEpoch)
	require.NoError(t, err)
	return o
}

func makeBlindReadyOrder(t *testing.T, number string) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(
		kernel.NewUUID(), number, "Customer "+number, "", "Street 1", nil,
		order.ReadyForDelivery, commandTestEpoch)
	require.NoError(t, err)
	return o
}

func makeActiveDeliverer(t *testing.T) *deliverer.Deliverer {
	t.Helper()

	d, err := deliverer.NewDeliverer(kernel.NewUUID(), "Jane Smith")
	require.NoError(t, err)
	return d
}

func makeInProgressRoute(t *testing.T, orders ...*order.Order) *route.Route {
	t.Helper()

	r, err := route.NewRoute(kernel.NewUUID(), "RT-20250310-101", kernel.NewUUID(), orders)
	require.NoError(t, err)
	require.NoError(t, r.Start(commandTestEpoch))
	return r
}
