package queries_test

import (
	"context"
	"testing"
	"time"

	"routing/internal/adapters/out/postgres/routerepo"
	"routing/internal/core/application/usecases/queries"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetRouteQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetRouteQueryHandler
}

func (suite *GetRouteQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&routerepo.RouteDTO{}, &routerepo.StopDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetRouteQueryHandler(db)
}

func (suite *GetRouteQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetRouteQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE routes, stops").Error
	suite.Require().NoError(err)
}

func (suite *GetRouteQueryHandlerTestSuite) TestHandle_UnknownRoute_ReturnsObjectNotFound() {
	query, err := queries.NewGetRouteQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetRouteQueryHandlerTestSuite) TestHandle_ReturnsRouteWithStopsOrderedBySequence() {
	routeID := uuid.New()
	delivererID := uuid.New()
	startedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	deliveredAt := time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC)

	err := suite.db.Create(&routerepo.RouteDTO{
		ID:          routeID,
		Number:      "RT-20260301-101",
		Status:      int(route.InProgress),
		DelivererID: &delivererID,
		StartedAt:   &startedAt,
	}).Error
	suite.Require().NoError(err)

	// Inserted out of sequence order on purpose.
	stops := []routerepo.StopDTO{
		{
			ID: uuid.New(), RouteID: routeID, OrderID: uuid.New(),
			Sequence: 2, Status: int(route.StopNext),
			OrderNumber: "ORD-2", CustomerName: "Bob", Street: "Oak Ave 2",
			Version: 2,
		},
		{
			ID: uuid.New(), RouteID: routeID, OrderID: uuid.New(),
			Sequence: 1, Status: int(route.StopDelivered),
			OrderNumber: "ORD-1", CustomerName: "Alice", Phone: "+48100200300", Street: "Main St 1",
			DeliveredAt: &deliveredAt,
			Version:     2,
		},
		{
			ID: uuid.New(), RouteID: routeID, OrderID: uuid.New(),
			Sequence: 3, Status: int(route.StopPending),
			OrderNumber: "ORD-3", CustomerName: "Carol", Street: "Elm Rd 3",
			Version: 1,
		},
	}
	for i := range stops {
		suite.Require().NoError(suite.db.Create(&stops[i]).Error)
	}

	kernelRouteID, err := kernel.UUIDFromBytes(routeID[:])
	suite.Require().NoError(err)
	query, err := queries.NewGetRouteQuery(kernelRouteID)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal("RT-20260301-101", result.Number)
	suite.Equal(route.InProgress, result.Status)
	suite.Require().NotNil(result.DelivererID)
	suite.Equal(delivererID, result.DelivererID.Bytes())
	suite.Require().NotNil(result.StartedAt)
	suite.Equal(startedAt, result.StartedAt.UTC())
	suite.Nil(result.CompletedAt)
	suite.Equal(3, result.TotalStops)

	suite.Require().Len(result.Stops, 3)
	suite.Equal([]string{"ORD-1", "ORD-2", "ORD-3"}, []string{
		result.Stops[0].OrderNumber, result.Stops[1].OrderNumber, result.Stops[2].OrderNumber,
	})
	suite.Equal(route.StopDelivered, result.Stops[0].Status)
	suite.Require().NotNil(result.Stops[0].DeliveredAt)
	suite.Equal(deliveredAt, result.Stops[0].DeliveredAt.UTC())
	suite.Equal("Alice", result.Stops[0].CustomerName)
	suite.Equal("+48100200300", result.Stops[0].Phone)
	suite.Nil(result.Stops[1].DeliveredAt)
}

func (suite *GetRouteQueryHandlerTestSuite) TestHandle_RouteWithoutDeliverer() {
	routeID := uuid.New()

	err := suite.db.Create(&routerepo.RouteDTO{
		ID:     routeID,
		Number: "RT-20260301-102",
		Status: int(route.Created),
	}).Error
	suite.Require().NoError(err)

	err = suite.db.Create(&routerepo.StopDTO{
		ID: uuid.New(), RouteID: routeID, OrderID: uuid.New(),
		Sequence: 1, Status: int(route.StopNext),
		OrderNumber: "ORD-1", CustomerName: "Alice", Street: "Main St 1",
		Version: 1,
	}).Error
	suite.Require().NoError(err)

	kernelRouteID, err := kernel.UUIDFromBytes(routeID[:])
	suite.Require().NoError(err)
	query, err := queries.NewGetRouteQuery(kernelRouteID)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Nil(result.DelivererID)
	suite.Nil(result.StartedAt)
	suite.Equal(1, result.TotalStops)
}

func TestGetRouteQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetRouteQueryHandlerTestSuite))
}
