package commands_test

import (
	"testing"

	"routing/internal/core/application/usecases/commands"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewStartRouteCommand(t *testing.T) {
	t.Run("valid command", func(t *testing.T) {
		routeID := kernel.NewUUID()
		cmd, err := commands.NewStartRouteCommand(routeID)
		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, routeID, cmd.RouteID())
	})

	t.Run("rejects zero route id", func(t *testing.T) {
		_, err := commands.NewStartRouteCommand(kernel.UUID{})
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.StartRouteCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrStartRouteCommandIsNotConstructed)
	})
}

func makeCreatedRoute(t *testing.T, orders ...*order.Order) *route.Route {
	t.Helper()

	r, err := route.NewRoute(kernel.NewUUID(), "RT-20250310-101", kernel.NewUUID(), orders)
	require.NoError(t, err)
	return r
}

func TestStartRouteCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	r := makeCreatedRoute(t, makeReadyOrder(t, "ORD-A", 0, 0.01), makeReadyOrder(t, "ORD-B", 0, 0.02))
	cmd, err := commands.NewStartRouteCommand(r.ID())
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("Get", ctx, r.ID()).Return(r, nil).Once(),
		routeRepo.On("Update", ctx, mock.AnythingOfType("*route.Route")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartRouteCommandHandler(factory)
	result, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)

	assert.Equal(t, route.InProgress, r.Status())
	require.NotNil(t, r.StartedAt())
	require.NotNil(t, r.NextStop())
	assert.Equal(t, 1, r.NextStop().Sequence())

	assert.Equal(t, r.ID(), result.RouteID)
	assert.Equal(t, "RT-20250310-101", result.RouteNumber)
	assert.Equal(t, route.Created, result.OldStatus)
	assert.Equal(t, route.InProgress, result.NewStatus)
	assert.Equal(t, *r.StartedAt(), result.StartedAt)
}

func TestStartRouteCommandHandler_Handle_RouteNotFound(t *testing.T) {
	ctx := t.Context()

	routeID := kernel.NewUUID()
	cmd, err := commands.NewStartRouteCommand(routeID)
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("Get", ctx, routeID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartRouteCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	routeRepo.AssertNotCalled(t, "Update")
}

func TestStartRouteCommandHandler_Handle_AlreadyStarted(t *testing.T) {
	ctx := t.Context()

	r := makeInProgressRoute(t, makeReadyOrder(t, "ORD-A", 0, 0.01))
	cmd, err := commands.NewStartRouteCommand(r.ID())
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("Get", ctx, r.ID()).Return(r, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartRouteCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	routeRepo.AssertNotCalled(t, "Update")
}
