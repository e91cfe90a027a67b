package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(aggregate *order.Order) {
	m.Called(aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify persistence and row locking behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders RESTART IDENTITY").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_AssignsIncreasingIDs() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("*order.Order")).Times(2)

	first := suite.addOrder(ctx, 500)
	second := suite.addOrder(ctx, 700)

	suite.Equal(int64(1), first.ID())
	suite.Equal(int64(2), second.ID())
	suite.assertOrderCount(2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistedOrder_Rejected() {
	ctx := context.Background()
	persisted, err := order.RestoreOrder(10, 100, order.Unassigned)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, persisted)

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
	suite.assertOrderCount(0)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NotConstructedOrder_Rejected() {
	err := suite.repository.Add(context.Background(), &order.Order{})
	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertOrderCount(0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Once()
	created := suite.addOrder(ctx, 500)

	got, err := suite.repository.Get(ctx, created.ID())

	suite.Require().NoError(err)
	suite.Equal(created.ID(), got.ID())
	suite.Equal(500, got.Distance())
	suite.Equal(order.Unassigned, got.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	got, err := suite.repository.Get(context.Background(), 999)

	suite.Nil(got)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.Equal(int64(999), notFoundErr.ID)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatus() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Times(2)
	created := suite.addOrder(ctx, 500)

	suite.Require().NoError(created.Take())
	suite.Require().NoError(suite.repository.Update(ctx, created))

	got, err := suite.repository.Get(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Taken, got.Status())
	suite.Equal(500, got.Distance())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder_ReturnsNotFound() {
	missing, err := order.RestoreOrder(42, 1, order.Taken)
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), missing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListInRange() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Times(5)
	for i := range 5 {
		suite.addOrder(ctx, i*100)
	}

	testCases := []struct {
		name      string
		lower     int64
		upper     int64
		expectIDs []int64
	}{
		{name: "first page", lower: 0, upper: 2, expectIDs: []int64{1, 2}},
		{name: "middle page", lower: 2, upper: 4, expectIDs: []int64{3, 4}},
		{name: "partial last page", lower: 4, upper: 6, expectIDs: []int64{5}},
		{name: "past the end", lower: 5, upper: 10, expectIDs: []int64{}},
		{name: "whole table", lower: 0, upper: 5, expectIDs: []int64{1, 2, 3, 4, 5}},
		{name: "empty range", lower: 3, upper: 3, expectIDs: []int64{}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			orders, err := suite.repository.ListInRange(ctx, tc.lower, tc.upper)
			suite.Require().NoError(err)

			ids := make([]int64, 0, len(orders))
			for _, o := range orders {
				ids = append(ids, o.ID())
			}
			suite.Equal(tc.expectIDs, ids)
		})
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountUnassigned() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Times(4)
	suite.addOrder(ctx, 1)
	suite.addOrder(ctx, 2)
	taken := suite.addOrder(ctx, 3)
	suite.Require().NoError(taken.Take())
	suite.Require().NoError(suite.repository.Update(ctx, taken))

	count, err := suite.repository.CountUnassigned(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetUnassignedForUpdate_OutsideTransaction() {
	_, err := suite.repository.GetUnassignedForUpdate(context.Background(), 1)
	suite.Require().ErrorIs(err, ports.ErrTransactionRequired)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetUnassignedForUpdate_ReturnsUnassignedOrder() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Once()
	created := suite.addOrder(ctx, 500)

	tx := suite.db.Begin()
	defer tx.Rollback()

	locked, err := orderrepo.NewGormOrderRepository(tx, nil).GetUnassignedForUpdate(ctx, created.ID())

	suite.Require().NoError(err)
	suite.Equal(created.ID(), locked.ID())
	suite.Equal(order.Unassigned, locked.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetUnassignedForUpdate_FiltersTakenAndMissing() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Times(2)
	taken := suite.addOrder(ctx, 500)
	suite.Require().NoError(taken.Take())
	suite.Require().NoError(suite.repository.Update(ctx, taken))

	for _, id := range []int64{taken.ID(), 999} {
		tx := suite.db.Begin()
		_, err := orderrepo.NewGormOrderRepository(tx, nil).GetUnassignedForUpdate(ctx, id)
		suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
		suite.Require().NoError(tx.Rollback().Error)
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetUnassignedForUpdate_HeldLockFailsFast() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Once()
	created := suite.addOrder(ctx, 500)

	holder := suite.db.Begin()
	defer holder.Rollback()
	_, err := orderrepo.NewGormOrderRepository(holder, nil).GetUnassignedForUpdate(ctx, created.ID())
	suite.Require().NoError(err)

	contender := suite.db.Begin()
	defer contender.Rollback()

	start := time.Now()
	_, err = orderrepo.NewGormOrderRepository(contender, nil).GetUnassignedForUpdate(ctx, created.ID())

	suite.Require().ErrorIs(err, ports.ErrRecordLocked)
	suite.NotErrorIs(err, errs.ErrObjectNotFound)
	suite.Less(time.Since(start), 2*time.Second)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetUnassignedForUpdate_LockReleasedOnRollback() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything).Once()
	created := suite.addOrder(ctx, 500)

	holder := suite.db.Begin()
	_, err := orderrepo.NewGormOrderRepository(holder, nil).GetUnassignedForUpdate(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(holder.Rollback().Error)

	next := suite.db.Begin()
	defer next.Rollback()
	locked, err := orderrepo.NewGormOrderRepository(next, nil).GetUnassignedForUpdate(ctx, created.ID())
	suite.Require().NoError(err)
	suite.Equal(created.ID(), locked.ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) addOrder(ctx context.Context, distance int) *order.Order {
	o, err := order.NewOrder(distance)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, o))
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestOrderRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
