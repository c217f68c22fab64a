package commands_test

import (
	"fmt"
	"testing"
	"time"

	"routing/internal/core/application/usecases/commands"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/core/domain/model/route"
	"routing/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildCreateRouteHandler(
	t *testing.T, factory *MockUoWFactory, policy commands.RoutePolicy, geofence fakeGeofence, sides fakeSides,
) commands.CreateRouteCommandHandler {
	t.Helper()

	depot, err := kernel.NewGeoPoint(0, 0)
	require.NoError(t, err)

	return commands.NewCreateRouteCommandHandler(
		factory,
		services.NewSequencer(nil, nil),
		fakeDepot{depot: depot, radiusKm: 10},
		geofence,
		sides,
		policy,
		nil,
	)
}

func orderIDs(orders ...*order.Order) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids
}

func TestCreateRouteCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	orderA := makeReadyOrder(t, "ORD-A", 0, 0.01)
	orderB := makeReadyOrder(t, "ORD-B", 0, 0.02)
	testOrders := []*order.Order{orderA, orderB}

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(orderA, orderB), "")
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	orderRepo := new(MockOrderRepository)
	delivererRepo := new(MockDelivererRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).Return(testOrders, nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("CountForDay", ctx, mock.AnythingOfType("time.Time")).Return(2, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Twice(),
		routeRepo.On("Add", ctx, mock.AnythingOfType("*route.Route")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, fakeSides{})
	require.NoError(t, handler.Handle(ctx, cmd))

	routeRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)

	added := routeRepo.Calls[1].Arguments[1].(*route.Route)
	assert.Equal(t, cmd.RouteID(), added.ID())
	assert.Equal(t, route.Created, added.Status())
	assert.Equal(t, 2, added.TotalStops())
	assert.Equal(t, "ORD-A", added.Stops()[0].OrderNumber())
	assert.Equal(t, route.StopNext, added.Stops()[0].Status())

	wantNumber := fmt.Sprintf("RT-%s-102", time.Now().UTC().Format("20060102"))
	assert.Equal(t, wantNumber, added.Number())

	assert.Equal(t, order.OutForDelivery, orderA.Status())
	assert.Equal(t, order.OutForDelivery, orderB.Status())
}

func TestCreateRouteCommandHandler_Handle_InactiveDeliverer(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	testDeliverer.Deactivate()
	orderA := makeReadyOrder(t, "ORD-A", 0, 0.01)

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(orderA), "")
	require.NoError(t, err)

	delivererRepo := new(MockDelivererRepository)
	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, fakeSides{})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDelivererIsNotActive)
	orderRepo.AssertNotCalled(t, "GetAllByIDs")
	assert.Equal(t, order.ReadyForDelivery, orderA.Status())
}

func TestCreateRouteCommandHandler_Handle_OrderNotReady(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	orderA := makeReadyOrder(t, "ORD-A", 0, 0.01)
	orderB := makeReadyOrder(t, "ORD-B", 0, 0.02)
	require.NoError(t, orderB.StartDelivery()) // already on another route

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(orderA, orderB), "")
	require.NoError(t, err)

	delivererRepo := new(MockDelivererRepository)
	orderRepo := new(MockOrderRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
			Return([]*order.Order{orderA, orderB}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, fakeSides{})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOrderIsNotReady)
	assert.Contains(t, err.Error(), "ORD-B")
	routeRepo.AssertNotCalled(t, "Add")
	orderRepo.AssertNotCalled(t, "Update")
	assert.Equal(t, order.ReadyForDelivery, orderA.Status())
}

func TestCreateRouteCommandHandler_Handle_UngeocodedExcluded(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	orderA := makeReadyOrder(t, "ORD-A", 0, 0.01)
	blind := makeBlindReadyOrder(t, "ORD-X")

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(orderA, blind), "")
	require.NoError(t, err)

	delivererRepo := new(MockDelivererRepository)
	orderRepo := new(MockOrderRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
			Return([]*order.Order{orderA, blind}, nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("CountForDay", ctx, mock.AnythingOfType("time.Time")).Return(0, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		routeRepo.On("Add", ctx, mock.AnythingOfType("*route.Route")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, fakeSides{})
	require.NoError(t, handler.Handle(ctx, cmd))

	added := routeRepo.Calls[1].Arguments[1].(*route.Route)
	assert.Equal(t, 1, added.TotalStops())
	assert.Equal(t, "ORD-A", added.Stops()[0].OrderNumber())

	// The excluded order keeps its status.
	assert.Equal(t, order.ReadyForDelivery, blind.Status())
	assert.Equal(t, order.OutForDelivery, orderA.Status())
}

func TestCreateRouteCommandHandler_Handle_OutOfRadiusFailsBatch(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	orderA := makeReadyOrder(t, "ORD-A", 0, 0.01)
	farAway := makeReadyOrder(t, "ORD-FAR", 0, 5) // ~556 km out

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(orderA, farAway), "")
	require.NoError(t, err)

	delivererRepo := new(MockDelivererRepository)
	orderRepo := new(MockOrderRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
			Return([]*order.Order{orderA, farAway}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, fakeSides{})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOrderIsOutOfRadius)
	assert.Contains(t, err.Error(), "ORD-FAR")
	routeRepo.AssertNotCalled(t, "Add")
	assert.Equal(t, order.ReadyForDelivery, orderA.Status())
}

func TestCreateRouteCommandHandler_Handle_ExclusionZoneFailsBatch(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	orderA := makeReadyOrder(t, "ORD-A", 0, 0.01)
	blocked := makeReadyOrder(t, "ORD-B", 0, 0.02)

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(orderA, blocked), "")
	require.NoError(t, err)

	delivererRepo := new(MockDelivererRepository)
	orderRepo := new(MockOrderRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
			Return([]*order.Order{orderA, blocked}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	geofence := fakeGeofence{blocked: map[kernel.GeoPoint]string{
		*blocked.Location(): "Airport",
	}}

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), geofence, fakeSides{})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOrderInExclusionZone)
	assert.Contains(t, err.Error(), "Airport")
	routeRepo.AssertNotCalled(t, "Add")
}

func TestCreateRouteCommandHandler_Handle_AllOrdersUngeocoded(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	blind := makeBlindReadyOrder(t, "ORD-X")

	cmd, err := commands.NewCreateRouteCommand(
		kernel.NewUUID(), testDeliverer.ID(), orderIDs(blind), "")
	require.NoError(t, err)

	delivererRepo := new(MockDelivererRepository)
	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DelivererRepository").Return(delivererRepo).Once(),
		delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
			Return([]*order.Order{blind}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, fakeSides{})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNoRoutableOrders)
}

func TestCreateRouteCommandHandler_Handle_RouteSide(t *testing.T) {
	ctx := t.Context()

	testDeliverer := makeActiveDeliverer(t)
	east := makeReadyOrder(t, "ORD-E", 0, 0.01)
	west := makeReadyOrder(t, "ORD-W", 0, -0.01)

	sides := fakeSides{bySide: map[string][]string{
		"A": {"ORD-E"},
		"B": {"ORD-W"},
	}}

	t.Run("keeps only orders on the requested side", func(t *testing.T) {
		cmd, err := commands.NewCreateRouteCommand(
			kernel.NewUUID(), testDeliverer.ID(), orderIDs(east, west), commands.RouteSideA)
		require.NoError(t, err)

		delivererRepo := new(MockDelivererRepository)
		orderRepo := new(MockOrderRepository)
		routeRepo := new(MockRouteRepository)
		uow := new(MockUoW)

		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("DelivererRepository").Return(delivererRepo).Once(),
			delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
				Return([]*order.Order{east, west}, nil).Once(),
			uow.On("RouteRepository").Return(routeRepo).Once(),
			routeRepo.On("CountForDay", ctx, mock.AnythingOfType("time.Time")).Return(0, nil).Once(),
			orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
			routeRepo.On("Add", ctx, mock.AnythingOfType("*route.Route")).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, sides)
		require.NoError(t, handler.Handle(ctx, cmd))

		added := routeRepo.Calls[1].Arguments[1].(*route.Route)
		assert.Equal(t, 1, added.TotalStops())
		assert.Equal(t, "ORD-E", added.Stops()[0].OrderNumber())
		assert.Equal(t, order.ReadyForDelivery, west.Status())
	})

	t.Run("fails when the side filter leaves nothing", func(t *testing.T) {
		eastOnly := makeReadyOrder(t, "ORD-E2", 0, 0.01)
		cmd, err := commands.NewCreateRouteCommand(
			kernel.NewUUID(), testDeliverer.ID(), orderIDs(eastOnly), commands.RouteSideB)
		require.NoError(t, err)

		delivererRepo := new(MockDelivererRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)

		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("DelivererRepository").Return(delivererRepo).Once(),
			delivererRepo.On("Get", ctx, testDeliverer.ID()).Return(testDeliverer, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetAllByIDs", ctx, cmd.OrderIDs()).
				Return([]*order.Order{eastOnly}, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		handler := buildCreateRouteHandler(t, factory, commands.DefaultRoutePolicy(), fakeGeofence{}, sides)
		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, commands.ErrNoRoutableOrders)
		assert.Contains(t, err.Error(), "side B")
	})
}
