package queries_test

import (
	"context"
	"testing"
	"time"

	"routing/internal/adapters/out/postgres/routerepo"
	"routing/internal/core/application/usecases/queries"
	"routing/internal/core/domain/model/route"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetActiveRoutesQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetActiveRoutesQueryHandler
}

func (suite *GetActiveRoutesQueryHandlerTestSuite) SetupSuite() {
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

	suite.handler = queries.NewGetActiveRoutesQueryHandler(db)
}

func (suite *GetActiveRoutesQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetActiveRoutesQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE routes, stops").Error
	suite.Require().NoError(err)
}

// seedRoute inserts a route with stops in the given statuses.
func (suite *GetActiveRoutesQueryHandlerTestSuite) seedRoute(number string, status route.Status, stopStatuses ...route.StopStatus) uuid.UUID {
	routeID := uuid.New()
	err := suite.db.Create(&routerepo.RouteDTO{
		ID:     routeID,
		Number: number,
		Status: int(status),
	}).Error
	suite.Require().NoError(err)

	for i, stopStatus := range stopStatuses {
		err = suite.db.Create(&routerepo.StopDTO{
			ID: uuid.New(), RouteID: routeID, OrderID: uuid.New(),
			Sequence: i + 1, Status: int(stopStatus),
			OrderNumber: "ORD-" + number, CustomerName: "Customer", Street: "Street",
			Version: 1,
		}).Error
		suite.Require().NoError(err)
	}

	return routeID
}

func (suite *GetActiveRoutesQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), queries.NewGetActiveRoutesQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetActiveRoutesQueryHandlerTestSuite) TestHandle_ExcludesTerminalRoutes() {
	suite.seedRoute("RT-20260301-101", route.InProgress, route.StopDelivered, route.StopNext)
	suite.seedRoute("RT-20260301-102", route.Completed, route.StopDelivered)
	suite.seedRoute("RT-20260301-103", route.Cancelled, route.StopPending)
	suite.seedRoute("RT-20260301-104", route.Created, route.StopNext, route.StopPending)

	result, err := suite.handler.Handle(context.Background(), queries.NewGetActiveRoutesQuery())
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.Equal("RT-20260301-101", result[0].Number)
	suite.Equal("RT-20260301-104", result[1].Number)
}

func (suite *GetActiveRoutesQueryHandlerTestSuite) TestHandle_CountsFinalizedStops() {
	suite.seedRoute("RT-20260301-101", route.InProgress,
		route.StopDelivered, route.StopFailed, route.StopSkipped, route.StopNext, route.StopPending)

	result, err := suite.handler.Handle(context.Background(), queries.NewGetActiveRoutesQuery())
	suite.Require().NoError(err)

	suite.Require().Len(result, 1)
	suite.Equal(5, result[0].TotalStops)
	suite.Equal(3, result[0].FinalizedStops)
	suite.Equal(route.InProgress, result[0].Status)
}

func TestGetActiveRoutesQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetActiveRoutesQueryHandlerTestSuite))
}
